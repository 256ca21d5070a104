package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbs(t *testing.T) {
	assert.Equal(t, 3, Abs(-3))
	assert.Equal(t, 3, Abs(3))
	assert.Equal(t, 0, Abs(0))
}

func TestArgMax(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected int
	}{
		{"empty", nil, -1},
		{"single", []float64{-2}, 0},
		{"last wins", []float64{0.1, 0.2, 0.3, 0.9}, 3},
		{"first of ties", []float64{0.5, 0.9, 0.9, 0.1}, 1},
		{"all equal", []float64{0, 0, 0, 0}, 0},
		{"negatives", []float64{-3, -1, -2}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ArgMax(tt.values))
		})
	}
}

func TestMaxFloat(t *testing.T) {
	assert.Equal(t, 4.0, MaxFloat([]float64{1, 4, -2}))
	assert.True(t, math.IsInf(MaxFloat(nil), -1))
}

func TestClampFloat(t *testing.T) {
	assert.Equal(t, 0.01, ClampFloat(0.001, 0.01, 1))
	assert.Equal(t, 1.0, ClampFloat(2, 0.01, 1))
	assert.Equal(t, 0.5, ClampFloat(0.5, 0.01, 1))
}
