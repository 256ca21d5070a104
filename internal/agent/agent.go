package agent

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/common"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/experience"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/game"
)

var (
	// ErrEmptyPrediction is returned when the approximator yields fewer action values than actions
	ErrEmptyPrediction = errors.New("approximator returned no action values")
)

// Config holds the learning hyperparameters
type Config struct {
	MemoryCapacity int
	BatchSize      int
	Gamma          float64
	EpsilonStart   float64
	EpsilonMin     float64
	EpsilonDecay   float64
	Epochs         int
}

// DefaultConfig returns the hyperparameters of the reference trainer
func DefaultConfig() Config {
	return Config{
		MemoryCapacity: experience.DefaultCapacity,
		BatchSize:      64,
		Gamma:          0.95,
		EpsilonStart:   1.0,
		EpsilonMin:     0.01,
		EpsilonDecay:   0.995,
		Epochs:         1,
	}
}

// Mode records how an action was picked
type Mode int

const (
	ModeExplore Mode = iota
	ModeExploit
)

func (m Mode) String() string {
	if m == ModeExploit {
		return "exploit"
	}
	return "explore"
}

// TrainResult describes the outcome of one TrainStep
type TrainResult struct {
	Trained bool
	Loss    float64
	Epsilon float64
}

// Agent is an epsilon-greedy Q-learner backed by a replay memory and an Approximator.
// Not safe for concurrent use; the memory and approximator are.
type Agent struct {
	cfg     Config
	model   Approximator
	memory  *experience.Memory
	rng     *rand.Rand
	epsilon float64
	steps   int
	logger  zerolog.Logger
}

// New creates an agent. Zero-valued config fields take their defaults.
func New(cfg Config, model Approximator, rng *rand.Rand, logger zerolog.Logger) *Agent {
	def := DefaultConfig()
	if cfg.MemoryCapacity <= 0 {
		cfg.MemoryCapacity = def.MemoryCapacity
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.Epochs <= 0 {
		cfg.Epochs = def.Epochs
	}

	return &Agent{
		cfg:     cfg,
		model:   model,
		memory:  experience.NewMemory(cfg.MemoryCapacity, logger),
		rng:     rng,
		epsilon: cfg.EpsilonStart,
		logger:  logger.With().Str("component", "agent").Logger(),
	}
}

// ChooseAction picks a uniformly random action with probability epsilon, otherwise the
// action with the highest predicted value (lowest index on ties).
func (a *Agent) ChooseAction(ctx context.Context, state []float64) (game.Action, Mode, error) {
	if a.rng.Float64() < a.epsilon {
		return game.Action(a.rng.Intn(game.NumActions)), ModeExplore, nil
	}

	values, err := a.model.Predict(ctx, [][]float64{state})
	if err != nil {
		return 0, ModeExploit, fmt.Errorf("predicting action values: %w", err)
	}
	if len(values) == 0 || len(values[0]) < game.NumActions {
		return 0, ModeExploit, ErrEmptyPrediction
	}

	return game.Action(common.ArgMax(values[0][:game.NumActions])), ModeExploit, nil
}

// Remember stores a transition, evicting the oldest when the memory is full
func (a *Agent) Remember(t experience.Transition) {
	a.memory.Add(t)
}

// TrainStep fits the approximator on one sampled batch. It is a no-op until the memory
// holds at least a batch of transitions. Epsilon decays after every successful fit.
func (a *Agent) TrainStep(ctx context.Context) (TrainResult, error) {
	if a.memory.Len() < a.cfg.BatchSize {
		return TrainResult{Epsilon: a.epsilon}, nil
	}

	batch, err := a.memory.Sample(a.cfg.BatchSize, a.rng)
	if err != nil {
		return TrainResult{Epsilon: a.epsilon}, fmt.Errorf("sampling batch: %w", err)
	}

	states := make([][]float64, len(batch))
	nextStates := make([][]float64, len(batch))
	for i, t := range batch {
		states[i] = t.State
		nextStates[i] = t.NextState
	}

	current, err := a.model.Predict(ctx, states)
	if err != nil {
		return TrainResult{Epsilon: a.epsilon}, fmt.Errorf("predicting current values: %w", err)
	}
	next, err := a.model.Predict(ctx, nextStates)
	if err != nil {
		return TrainResult{Epsilon: a.epsilon}, fmt.Errorf("predicting next values: %w", err)
	}
	if len(current) != len(batch) || len(next) != len(batch) {
		return TrainResult{Epsilon: a.epsilon}, ErrEmptyPrediction
	}

	targets := make([][]float64, len(batch))
	for i, t := range batch {
		if len(current[i]) < game.NumActions || len(next[i]) < game.NumActions {
			return TrainResult{Epsilon: a.epsilon}, ErrEmptyPrediction
		}
		targets[i] = append([]float64(nil), current[i]...)
		if t.Done {
			targets[i][t.Action] = t.Reward
		} else {
			targets[i][t.Action] = t.Reward + a.cfg.Gamma*common.MaxFloat(next[i])
		}
	}

	loss, err := a.model.Fit(ctx, states, targets, a.cfg.Epochs)
	if err != nil {
		return TrainResult{Epsilon: a.epsilon}, fmt.Errorf("fitting approximator: %w", err)
	}

	if a.epsilon > a.cfg.EpsilonMin {
		a.epsilon = common.ClampFloat(a.epsilon*a.cfg.EpsilonDecay, a.cfg.EpsilonMin, a.epsilon)
	}
	a.steps++

	a.logger.Debug().
		Int("step", a.steps).
		Float64("loss", loss).
		Float64("epsilon", a.epsilon).
		Msg("Training step")

	return TrainResult{Trained: true, Loss: loss, Epsilon: a.epsilon}, nil
}

// Epsilon returns the current exploration rate
func (a *Agent) Epsilon() float64 { return a.epsilon }

// Steps returns the number of completed training steps
func (a *Agent) Steps() int { return a.steps }

// Memory returns the agent's replay memory
func (a *Agent) Memory() *experience.Memory { return a.memory }
