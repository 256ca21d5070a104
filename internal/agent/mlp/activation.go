package mlp

import (
	"fmt"
	"math"
	"strings"
)

// Activation is the nonlinearity applied by every hidden layer
type Activation string

const (
	Tanh Activation = "tanh"
	ReLU Activation = "relu"
)

// ParseActivation converts a config string into an Activation
func ParseActivation(s string) (Activation, error) {
	switch Activation(strings.ToLower(strings.TrimSpace(s))) {
	case Tanh, "":
		return Tanh, nil
	case ReLU:
		return ReLU, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownActivation, s)
	}
}

func (a Activation) apply(v float64) float64 {
	if a == ReLU {
		return math.Max(0, v)
	}
	return math.Tanh(v)
}

// derivative in terms of the activation's output
func (a Activation) derivative(out float64) float64 {
	if a == ReLU {
		if out > 0 {
			return 1
		}
		return 0
	}
	return 1 - out*out
}
