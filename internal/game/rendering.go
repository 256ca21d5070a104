package game

import (
	"strconv"
	"strings"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

// pieceColors is indexed by cell value; 0 is the empty cell.
var pieceColors = []string{ColorGray, ColorPurple, ColorYellow, ColorWhite, ColorBlue, ColorCyan, ColorGreen, ColorRed}

// String renders the board with the active piece overlaid, for terminal output.
func (s *Session) String() string {
	const (
		EmptySymbol = "·"
		CellSymbol  = "■"
	)

	w, h := s.board.W, s.board.H
	var sb strings.Builder
	sb.Grow((w*12 + 8) * (h + 2))

	sb.WriteString("Score: ")
	sb.WriteString(strconv.Itoa(s.player.Score))
	sb.WriteString("  Episode: ")
	sb.WriteString(strconv.Itoa(s.episode))
	sb.WriteString("\n")

	for y := 0; y < h; y++ {
		sb.WriteString("|")
		for x := 0; x < w; x++ {
			v := s.CellAt(x, y)
			if v == 0 {
				sb.WriteString(ColorGray + EmptySymbol + ColorReset)
				continue
			}
			sb.WriteString(cellColor(v) + CellSymbol + ColorReset)
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("+")
	sb.WriteString(strings.Repeat("-", w))
	sb.WriteString("+\n")

	return sb.String()
}

// CellAt returns the value drawn at (x, y): the active piece wins over the board.
func (s *Session) CellAt(x, y int) int {
	p := s.player.Piece
	px, py := x-s.player.Pos.X, y-s.player.Pos.Y
	if p != nil && py >= 0 && py < p.Size() && px >= 0 && px < len(p.Cells[py]) {
		if v := p.Cells[py][px]; v != 0 {
			return v
		}
	}
	return s.board.Cells[y][x]
}

func cellColor(v int) string {
	if v >= 0 && v < len(pieceColors) {
		return pieceColors[v]
	}
	return ColorWhite
}
