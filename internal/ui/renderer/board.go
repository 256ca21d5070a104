package renderer

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/common"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/game"
)

const (
	borderWidth = 2
	lineHeight  = 16
)

type BoardRenderer struct {
	tileSize    int
	defaultFont font.Face
	offsetX     int
	offsetY     int
}

// NewBoardRenderer returns a renderer ready to use.
func NewBoardRenderer(tileSize int, f font.Face) *BoardRenderer {
	return &BoardRenderer{tileSize: tileSize, defaultFont: f, offsetX: borderWidth, offsetY: borderWidth}
}

// BoardSize returns the pixel size of a w×h board including its border
func (br *BoardRenderer) BoardSize(w, h int) (int, int) {
	return w*br.tileSize + 2*borderWidth, h*br.tileSize + 2*borderWidth
}

// Draw renders the locked cells and the active piece on the supplied Ebiten screen.
func (br *BoardRenderer) Draw(screen *ebiten.Image, s *game.Session) {
	if s == nil {
		return
	}
	b := s.Board()
	pw, ph := br.BoardSize(b.W, b.H)

	vector.StrokeRect(screen, 1, 1, float32(pw-2), float32(ph-2), borderWidth, common.BorderColor, false)

	ts := float32(br.tileSize)
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			sx := float32(br.offsetX + x*br.tileSize)
			sy := float32(br.offsetY + y*br.tileSize)

			c := common.CellColor(s.CellAt(x, y))
			if c == nil {
				vector.StrokeRect(screen, sx, sy, ts, ts, 1, common.GridLineColor, false)
				continue
			}
			vector.DrawFilledRect(screen, sx+1, sy+1, ts-2, ts-2, c, false)
		}
	}
}

// DrawHUD writes one text line per entry to the right of a w×h board
func (br *BoardRenderer) DrawHUD(screen *ebiten.Image, w, h int, lines []string) {
	if br.defaultFont == nil {
		return
	}
	pw, _ := br.BoardSize(w, h)
	x := pw + 10
	for i, line := range lines {
		text.Draw(screen, line, br.defaultFont, x, lineHeight*(i+1), common.HUDTextColor)
	}
}

// DrawBanner writes a message across the top of the board
func (br *BoardRenderer) DrawBanner(screen *ebiten.Image, msg string, clr color.Color) {
	if br.defaultFont == nil {
		return
	}
	text.Draw(screen, msg, br.defaultFont, br.offsetX+4, br.offsetY+lineHeight, clr)
}
