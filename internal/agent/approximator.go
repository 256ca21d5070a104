package agent

import "context"

// Approximator maps encoded states to one value per action and can be fitted
// toward target values. Implementations must be safe for concurrent use.
type Approximator interface {
	// Predict returns one row of action values per input state
	Predict(ctx context.Context, states [][]float64) ([][]float64, error)
	// Fit runs the given number of passes over (states, targets) and returns the final loss
	Fit(ctx context.Context, states, targets [][]float64, epochs int) (float64, error)
}
