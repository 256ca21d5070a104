package trainer

import (
	"io"

	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/game"
)

const clearScreen = "\033[H\033[2J"

// ConsoleRenderer prints the ANSI board to a writer
type ConsoleRenderer struct {
	w     io.Writer
	clear bool
}

// NewConsoleRenderer creates a renderer. When clear is set the terminal is wiped
// before every frame.
func NewConsoleRenderer(w io.Writer, clear bool) *ConsoleRenderer {
	return &ConsoleRenderer{w: w, clear: clear}
}

// Render implements Renderer
func (c *ConsoleRenderer) Render(s *game.Session) {
	if c.clear {
		io.WriteString(c.w, clearScreen)
	}
	io.WriteString(c.w, s.String())
}
