package testutil

import (
	"math/rand"
	"strings"

	"github.com/rs/zerolog"
)

// NewTestRNG creates a deterministic random number generator for tests
func NewTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NopLogger returns a no-op logger for tests
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// ParseRows builds a cell matrix from picture rows: '.' is empty, a digit is that
// cell value, anything else is 1. Whitespace is ignored.
func ParseRows(rows ...string) [][]int {
	cells := make([][]int, len(rows))
	for y, r := range rows {
		r = strings.Join(strings.Fields(r), "")
		cells[y] = make([]int, len(r))
		for x, ch := range r {
			switch {
			case ch == '.':
			case ch >= '0' && ch <= '9':
				cells[y][x] = int(ch - '0')
			default:
				cells[y][x] = 1
			}
		}
	}
	return cells
}
