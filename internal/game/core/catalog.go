package core

import "math/rand"

// PieceType names one of the seven tetrominoes.
type PieceType byte

const (
	PieceI PieceType = 'I'
	PieceL PieceType = 'L'
	PieceJ PieceType = 'J'
	PieceO PieceType = 'O'
	PieceT PieceType = 'T'
	PieceS PieceType = 'S'
	PieceZ PieceType = 'Z'
)

// PieceTypes is the spawn catalog, in draw order.
var PieceTypes = []PieceType{PieceI, PieceL, PieceJ, PieceO, PieceT, PieceS, PieceZ}

func (t PieceType) String() string { return string(t) }

// NewPiece builds a fresh matrix for the given type. Unknown types get the T shape.
func NewPiece(t PieceType) *Piece {
	switch t {
	case PieceT:
		return &Piece{Type: PieceT, Cells: [][]int{
			{0, 0, 0},
			{1, 1, 1},
			{0, 1, 0},
		}}
	case PieceO:
		return &Piece{Type: PieceO, Cells: [][]int{
			{2, 2},
			{2, 2},
		}}
	case PieceL:
		return &Piece{Type: PieceL, Cells: [][]int{
			{0, 3, 0},
			{0, 3, 0},
			{0, 3, 3},
		}}
	case PieceJ:
		return &Piece{Type: PieceJ, Cells: [][]int{
			{0, 4, 0},
			{0, 4, 0},
			{4, 4, 0},
		}}
	case PieceI:
		return &Piece{Type: PieceI, Cells: [][]int{
			{0, 0, 5, 0},
			{0, 0, 5, 0},
			{0, 0, 5, 0},
			{0, 0, 5, 0},
		}}
	case PieceS:
		return &Piece{Type: PieceS, Cells: [][]int{
			{0, 6, 6},
			{6, 6, 0},
			{0, 0, 0},
		}}
	case PieceZ:
		return &Piece{Type: PieceZ, Cells: [][]int{
			{7, 7, 0},
			{0, 7, 7},
			{0, 0, 0},
		}}
	default:
		return NewPiece(PieceT)
	}
}

// RandomPiece draws a piece type uniformly from the catalog.
func RandomPiece(rng *rand.Rand) *Piece {
	return NewPiece(PieceTypes[rng.Intn(len(PieceTypes))])
}
