package experience

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateReward(t *testing.T) {
	tests := []struct {
		name     string
		cleared  int
		expected float64
	}{
		{"idle tick", 0, -0.1},
		{"single line", 1, 9.9},
		{"double", 2, 19.9},
		{"tetris", 4, 39.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CalculateReward(tt.cleared), 1e-9)
		})
	}
}

func TestCalculateRewardWithConfig(t *testing.T) {
	config := &RewardConfig{LineClear: 1, StepCost: 0}

	assert.Equal(t, 3.0, CalculateRewardWithConfig(3, config))
	assert.Equal(t, 0.0, CalculateRewardWithConfig(0, config))
}

func TestDefaultRewardConfig(t *testing.T) {
	config := DefaultRewardConfig()

	assert.Equal(t, 10.0, config.LineClear)
	assert.Equal(t, 0.1, config.StepCost)
}
