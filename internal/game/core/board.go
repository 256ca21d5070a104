package core

import "strings"

// Board is the fixed-size arena of locked cells.
// Cells[y][x]: 0 = empty, 1..7 = color identifier of the piece that locked there.
type Board struct {
	W, H  int
	Cells [][]int
}

func NewBoard(w, h int) *Board {
	b := &Board{W: w, H: h, Cells: make([][]int, h)}
	for y := range b.Cells {
		b.Cells[y] = make([]int, w)
	}
	return b
}

// InBounds checks if coordinates are within board boundaries
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.W && y >= 0 && y < b.H
}

// Occupied reports whether (x, y) holds a locked cell. Out-of-bounds counts as occupied.
func (b *Board) Occupied(x, y int) bool {
	if !b.InBounds(x, y) {
		return true
	}
	return b.Cells[y][x] != 0
}

// Collide reports whether any solid cell of p, translated by pos, overlaps a locked
// cell or leaves the board.
func (b *Board) Collide(p *Piece, pos Position) bool {
	for y, row := range p.Cells {
		for x, v := range row {
			if v != 0 && b.Occupied(x+pos.X, y+pos.Y) {
				return true
			}
		}
	}
	return false
}

// Merge writes the solid cells of p into the board. Callers check Collide first;
// cells that would land outside the board are dropped.
func (b *Board) Merge(p *Piece, pos Position) {
	for y, row := range p.Cells {
		for x, v := range row {
			if v == 0 || !b.InBounds(x+pos.X, y+pos.Y) {
				continue
			}
			b.Cells[y+pos.Y][x+pos.X] = v
		}
	}
}

// Sweep removes every full row, shifting the rows above it down and inserting empty
// rows at the top. Returns the number of rows removed.
func (b *Board) Sweep() int {
	cleared := 0
	for y := b.H - 1; y >= 0; y-- {
		if !b.rowFull(y) {
			continue
		}

		row := b.Cells[y]
		for x := range row {
			row[x] = 0
		}
		copy(b.Cells[1:y+1], b.Cells[:y])
		b.Cells[0] = row

		// the row shifted into y has not been checked yet
		y++
		cleared++
	}
	return cleared
}

func (b *Board) rowFull(y int) bool {
	for _, v := range b.Cells[y] {
		if v == 0 {
			return false
		}
	}
	return true
}

// Clear empties every cell.
func (b *Board) Clear() {
	for _, row := range b.Cells {
		for x := range row {
			row[x] = 0
		}
	}
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	c := &Board{W: b.W, H: b.H, Cells: make([][]int, b.H)}
	for y, row := range b.Cells {
		c.Cells[y] = append([]int(nil), row...)
	}
	return c
}

// FilledCount returns the number of non-empty cells.
func (b *Board) FilledCount() int {
	n := 0
	for _, row := range b.Cells {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// String renders the board as rows of digits, '.' for empty cells.
func (b *Board) String() string {
	var sb strings.Builder
	for _, row := range b.Cells {
		for _, v := range row {
			if v == 0 {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(byte('0' + v%10))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
