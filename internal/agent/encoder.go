package agent

import (
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/game"
)

// PieceGrid is the side of the square the active piece is padded (or cropped) to.
const PieceGrid = 4

// StateSize returns the encoded length for a board of the given dimensions
func StateSize(width, height int) int {
	return 2 + width*height + PieceGrid*PieceGrid
}

// Encoder flattens a session into the approximator's input vector:
// normalized piece position, board occupancy row-major, then the piece's 4x4 occupancy.
type Encoder struct {
	width  int
	height int
}

// NewEncoder creates an encoder for a board of the given dimensions
func NewEncoder(width, height int) *Encoder {
	return &Encoder{width: width, height: height}
}

// Size returns the length of every encoded state
func (e *Encoder) Size() int {
	return StateSize(e.width, e.height)
}

// Encode returns a fresh vector describing the session's board and active piece
func (e *Encoder) Encode(s *game.Session) []float64 {
	state := make([]float64, 0, e.Size())
	p := s.Player()

	state = append(state, float64(p.Pos.X)/float64(e.width), float64(p.Pos.Y)/float64(e.height))

	b := s.Board()
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			state = append(state, occupancy(b.Occupied(x, y)))
		}
	}

	for y := 0; y < PieceGrid; y++ {
		for x := 0; x < PieceGrid; x++ {
			filled := p.Piece != nil && y < len(p.Piece.Cells) && x < len(p.Piece.Cells[y]) && p.Piece.Cells[y][x] != 0
			state = append(state, occupancy(filled))
		}
	}

	return state
}

func occupancy(filled bool) float64 {
	if filled {
		return 1
	}
	return 0
}
