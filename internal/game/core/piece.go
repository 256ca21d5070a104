package core

// Position is the top-left offset of a piece matrix in board coordinates.
type Position struct {
	X, Y int
}

// Piece is a square matrix of color identifiers. Zero cells are transparent.
type Piece struct {
	Type  PieceType
	Cells [][]int
}

// Size returns the side length of the piece matrix.
func (p *Piece) Size() int { return len(p.Cells) }

// Width returns the width of the first row, which is what spawn centering and the
// wall-kick bound are measured against.
func (p *Piece) Width() int {
	if len(p.Cells) == 0 {
		return 0
	}
	return len(p.Cells[0])
}

// Rotate turns the matrix 90 degrees in place. dir > 0 rotates clockwise,
// anything else counter-clockwise.
func (p *Piece) Rotate(dir int) {
	m := p.Cells
	for y := range m {
		for x := 0; x < y; x++ {
			m[x][y], m[y][x] = m[y][x], m[x][y]
		}
	}

	if dir > 0 {
		for _, row := range m {
			reverseInts(row)
		}
		return
	}
	for i, j := 0, len(m)-1; i < j; i, j = i+1, j-1 {
		m[i], m[j] = m[j], m[i]
	}
}

// Clone returns a deep copy of the piece.
func (p *Piece) Clone() *Piece {
	cells := make([][]int, len(p.Cells))
	for i, row := range p.Cells {
		cells[i] = append([]int(nil), row...)
	}
	return &Piece{Type: p.Type, Cells: cells}
}

// Equal reports whether two pieces have the same cell layout.
func (p *Piece) Equal(other *Piece) bool {
	if other == nil || len(p.Cells) != len(other.Cells) {
		return false
	}
	for y := range p.Cells {
		if len(p.Cells[y]) != len(other.Cells[y]) {
			return false
		}
		for x := range p.Cells[y] {
			if p.Cells[y][x] != other.Cells[y][x] {
				return false
			}
		}
	}
	return true
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
