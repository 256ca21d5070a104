package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/game"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/testutil"
)

func newTestSession(t *testing.T) *game.Session {
	t.Helper()
	return game.NewSession(game.GameConfig{
		Width:  12,
		Height: 20,
		Rng:    testutil.NewTestRNG(5),
		Logger: testutil.NopLogger(),
	})
}

func TestStateSize(t *testing.T) {
	assert.Equal(t, 258, StateSize(12, 20))
	assert.Equal(t, 2+4*6+16, StateSize(4, 6))
	assert.Equal(t, 258, NewEncoder(12, 20).Size())
}

func TestEncode_Layout(t *testing.T) {
	s := newTestSession(t)
	enc := NewEncoder(12, 20)

	s.Drop()
	s.Board().Cells[19][0] = 3
	s.Board().Cells[19][11] = 7

	state := enc.Encode(s)
	require.Len(t, state, enc.Size())

	p := s.Player()
	assert.InDelta(t, float64(p.Pos.X)/12, state[0], 1e-12)
	assert.InDelta(t, 1.0/20, state[1], 1e-12)

	boardStart := 2
	assert.Equal(t, 1.0, state[boardStart+19*12+0])
	assert.Equal(t, 1.0, state[boardStart+19*12+11])
	assert.Equal(t, 0.0, state[boardStart+19*12+5])

	pieceStart := boardStart + 12*20
	for y := 0; y < PieceGrid; y++ {
		for x := 0; x < PieceGrid; x++ {
			expected := 0.0
			if y < p.Piece.Size() && x < len(p.Piece.Cells[y]) && p.Piece.Cells[y][x] != 0 {
				expected = 1
			}
			assert.Equal(t, expected, state[pieceStart+y*PieceGrid+x], "piece cell (%d,%d)", x, y)
		}
	}
}

func TestEncode_OnlyBinaryCells(t *testing.T) {
	s := newTestSession(t)
	enc := NewEncoder(12, 20)
	for x := 0; x < 12; x += 2 {
		s.Board().Cells[10][x] = x%7 + 1
	}

	state := enc.Encode(s)

	for i, v := range state[2:] {
		assert.Contains(t, []float64{0, 1}, v, "index %d", i+2)
	}
}

func TestEncode_ReturnsFreshSlice(t *testing.T) {
	s := newTestSession(t)
	enc := NewEncoder(12, 20)

	a := enc.Encode(s)
	a[0] = 99
	b := enc.Encode(s)

	assert.NotEqual(t, 99.0, b[0])
}

func TestEncode_MovedPiece(t *testing.T) {
	s := newTestSession(t)
	enc := NewEncoder(12, 20)
	before := enc.Encode(s)

	require.True(t, s.Move(-1))
	after := enc.Encode(s)

	assert.InDelta(t, before[0]-1.0/12, after[0], 1e-12)
	assert.Equal(t, before[2:], after[2:])
}
