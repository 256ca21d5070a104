package trainer

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/agent"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/agent/mlp"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/config"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/experience"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/game"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/game/events"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/grpc/modelserver"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/monitoring"
)

// Setup is a fully wired training run
type Setup struct {
	Runner  *Runner
	Bus     *events.EventBus
	Monitor *monitoring.ProgressMonitor
	Model   agent.Approximator
	Seed    int64

	client *modelserver.Client
}

// Close releases the remote model connection, if any
func (s *Setup) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// NewNetwork builds the local approximator described by the agent section
func NewNetwork(cfg *config.Config, seed int64) (*mlp.Network, error) {
	return mlp.NewNetwork(mlp.Config{
		Inputs:       agent.StateSize(cfg.Game.BoardWidth, cfg.Game.BoardHeight),
		Hidden:       cfg.Agent.HiddenUnits,
		Outputs:      game.NumActions,
		Activation:   mlp.Activation(cfg.Agent.Activation),
		LearningRate: cfg.Agent.LearningRate,
		BatchSize:    cfg.Agent.FitBatchSize,
		Seed:         seed,
	})
}

// Build wires session, agent, approximator, event bus and monitor from cfg.
// renderer may be nil.
func Build(cfg *config.Config, renderer Renderer, logger zerolog.Logger) (*Setup, error) {
	seed := cfg.Agent.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	setup := &Setup{Seed: seed}

	if cfg.Agent.ModelAddr != "" {
		client, err := modelserver.Dial(cfg.Agent.ModelAddr, logger)
		if err != nil {
			return nil, err
		}
		setup.client = client
		setup.Model = client
	} else {
		network, err := NewNetwork(cfg, seed+2)
		if err != nil {
			return nil, fmt.Errorf("building network: %w", err)
		}
		setup.Model = network
	}

	setup.Bus = events.NewEventBus(logger)
	setup.Monitor = monitoring.NewProgressMonitor(cfg.Trainer.LogEvery, logger)
	setup.Bus.Subscribe(setup.Monitor)
	setup.Bus.Subscribe(subscribers.NewLoggerSubscriber("event_logger", logger, zerolog.DebugLevel))

	session := game.NewSession(game.GameConfig{
		Width:     cfg.Game.BoardWidth,
		Height:    cfg.Game.BoardHeight,
		Rng:       rand.New(rand.NewSource(seed)),
		Publisher: setup.Bus,
		Logger:    logger,
	})

	ag := agent.New(agent.Config{
		MemoryCapacity: cfg.Agent.MemoryCapacity,
		BatchSize:      cfg.Agent.BatchSize,
		Gamma:          cfg.Agent.Gamma,
		EpsilonStart:   cfg.Agent.EpsilonStart,
		EpsilonMin:     cfg.Agent.EpsilonMin,
		EpsilonDecay:   cfg.Agent.EpsilonDecay,
		Epochs:         cfg.Agent.Epochs,
	}, setup.Model, rand.New(rand.NewSource(seed+1)), logger)

	setup.Runner = NewRunner(Config{
		MaxTicks:    cfg.Trainer.MaxTicks,
		RenderEvery: cfg.Trainer.RenderEvery,
		Rewards: &experience.RewardConfig{
			LineClear: cfg.Rewards.LineClear,
			StepCost:  cfg.Rewards.StepCost,
		},
		Renderer:  renderer,
		Monitor:   setup.Monitor,
		Publisher: setup.Bus,
	}, session, agent.NewEncoder(cfg.Game.BoardWidth, cfg.Game.BoardHeight), ag, logger)

	return setup, nil
}
