package testutil

import (
	"context"
	"sync"
)

// FullRow returns a row of width w where every cell holds color.
func FullRow(w, color int) []int {
	row := make([]int, w)
	for i := range row {
		row[i] = color
	}
	return row
}

// StubApproximator is a scripted action-value model for tests. Predict returns
// Values for every input row (or zeros when Values is nil) and Fit records its
// arguments.
type StubApproximator struct {
	mu sync.Mutex

	Actions int
	Values  []float64

	PredictErr error
	FitErr     error

	PredictCalls int
	FitCalls     int
	LastStates   [][]float64
	LastTargets  [][]float64
	LastEpochs   int
}

func (s *StubApproximator) Predict(ctx context.Context, states [][]float64) ([][]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.PredictCalls++
	if s.PredictErr != nil {
		return nil, s.PredictErr
	}

	out := make([][]float64, len(states))
	for i := range out {
		out[i] = make([]float64, s.Actions)
		copy(out[i], s.Values)
	}
	return out, nil
}

func (s *StubApproximator) Fit(ctx context.Context, states, targets [][]float64, epochs int) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.FitCalls++
	if s.FitErr != nil {
		return 0, s.FitErr
	}
	s.LastStates = states
	s.LastTargets = targets
	s.LastEpochs = epochs
	return 0, nil
}
