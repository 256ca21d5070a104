package ui

import (
	"context"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/common"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/config"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/trainer"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/ui/input"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/ui/renderer"
)

// UI configuration functions
func ScreenWidth() int {
	return config.Get().UI.Window.Width
}

func ScreenHeight() int {
	return config.Get().UI.Window.Height
}

func TileSize() int {
	return config.Get().UI.TileSize
}

func TickInterval() int {
	return config.Get().UI.TickInterval
}

// UIGame shows a training run. Ebiten's frame scheduler drives Runner.Tick, so
// the loop never sleeps on its own.
type UIGame struct {
	runner        *trainer.Runner
	boardRenderer *renderer.BoardRenderer
	input         *input.Handler
	defaultFont   font.Face

	ctx   context.Context
	frame int
	last  trainer.TickResult
}

// NewUIGame creates a new Ebitengine game instance.
func NewUIGame(ctx context.Context, runner *trainer.Runner) (*UIGame, error) {
	if runner == nil {
		return nil, fmt.Errorf("ui game needs a runner")
	}
	g := &UIGame{
		runner:      runner,
		input:       input.NewHandler(TickInterval()),
		defaultFont: basicfont.Face7x13,
		ctx:         ctx,
	}

	g.boardRenderer = renderer.NewBoardRenderer(TileSize(), g.defaultFont)

	return g, nil
}

// Update proceeds the game state. A tick error ends RunGame with that error.
func (g *UIGame) Update() error {
	if err := g.ctx.Err(); err != nil {
		return ebiten.Termination
	}

	g.input.Update()
	g.frame++
	if !g.input.ShouldTick(g.frame) {
		return nil
	}

	res, err := g.runner.Tick(g.ctx)
	if err != nil {
		return err
	}
	g.last = res
	return nil
}

// Draw renders the game screen.
func (g *UIGame) Draw(screen *ebiten.Image) {
	screen.Fill(common.BackgroundColor)

	s := g.runner.Session()
	g.boardRenderer.Draw(screen, s)

	b := s.Board()
	g.boardRenderer.DrawHUD(screen, b.W, b.H, g.hudLines())

	if g.input.IsPaused() {
		g.boardRenderer.DrawBanner(screen, "PAUSED", color.RGBA{255, 220, 0, 255})
	}
}

func (g *UIGame) hudLines() []string {
	s := g.runner.Session()
	a := g.runner.Agent()
	return []string{
		fmt.Sprintf("Score:   %d", s.Score()),
		fmt.Sprintf("Episode: %d", s.Episode()),
		fmt.Sprintf("Lines:   %d", s.EpisodeLines()),
		fmt.Sprintf("Ticks:   %d", g.runner.Ticks()),
		fmt.Sprintf("Epsilon: %.3f", a.Epsilon()),
		fmt.Sprintf("Loss:    %.4f", g.last.Train.Loss),
		fmt.Sprintf("Action:  %s (%s)", g.last.Action, g.last.Mode),
		fmt.Sprintf("Memory:  %d", a.Memory().Len()),
		fmt.Sprintf("Speed:   1/%d frames", g.input.TickInterval()),
	}
}

// Layout defines the Ebitengine screen size.
func (g *UIGame) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return ScreenWidth(), ScreenHeight()
}
