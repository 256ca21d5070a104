package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/testutil"
)

func TestNewPiece_Shapes(t *testing.T) {
	o := NewPiece(PieceO)
	assert.Equal(t, [][]int{{2, 2}, {2, 2}}, o.Cells)
	assert.Equal(t, 2, o.Width())

	i := NewPiece(PieceI)
	assert.Equal(t, 4, i.Size())

	for color, pt := range []PieceType{PieceT, PieceO, PieceL, PieceJ, PieceI, PieceS, PieceZ} {
		p := NewPiece(pt)
		assert.Equal(t, pt, p.Type)
		for _, row := range p.Cells {
			assert.Len(t, row, p.Size(), "piece %s must be square", pt)
			for _, v := range row {
				if v != 0 {
					assert.Equal(t, color+1, v, "piece %s color", pt)
				}
			}
		}
	}
}

func TestNewPiece_UnknownFallsBackToT(t *testing.T) {
	p := NewPiece(PieceType('X'))

	assert.Equal(t, PieceT, p.Type)
	assert.True(t, p.Equal(NewPiece(PieceT)))
}

func TestNewPiece_ReturnsIndependentMatrices(t *testing.T) {
	a := NewPiece(PieceS)
	a.Cells[0][1] = 0

	assert.Equal(t, 6, NewPiece(PieceS).Cells[0][1])
}

func TestRandomPiece_CoversCatalog(t *testing.T) {
	rng := testutil.NewTestRNG(7)
	seen := make(map[PieceType]int)
	for i := 0; i < 700; i++ {
		seen[RandomPiece(rng).Type]++
	}

	assert.Len(t, seen, len(PieceTypes))
}

func TestPiece_RotateClockwise(t *testing.T) {
	p := NewPiece(PieceT)
	p.Rotate(1)

	assert.Equal(t, [][]int{
		{0, 1, 0},
		{1, 1, 0},
		{0, 1, 0},
	}, p.Cells)
}

func TestPiece_RotateCounterClockwise(t *testing.T) {
	p := NewPiece(PieceT)
	p.Rotate(-1)

	assert.Equal(t, [][]int{
		{0, 1, 0},
		{0, 1, 1},
		{0, 1, 0},
	}, p.Cells)
}

func TestPiece_FourRotationsRestoreLayout(t *testing.T) {
	for _, pt := range PieceTypes {
		for _, dir := range []int{1, -1} {
			p := NewPiece(pt)
			original := p.Clone()
			for i := 0; i < 4; i++ {
				p.Rotate(dir)
			}
			assert.True(t, p.Equal(original), "piece %s dir %d", pt, dir)
		}
	}
}

func TestPiece_OppositeRotationsCancel(t *testing.T) {
	p := NewPiece(PieceL)
	original := p.Clone()

	p.Rotate(1)
	assert.False(t, p.Equal(original))
	p.Rotate(-1)
	assert.True(t, p.Equal(original))
}
