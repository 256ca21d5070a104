package trainer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/agent"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/experience"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/game"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/game/events"
)

// Renderer draws the session after a tick
type Renderer interface {
	Render(s *game.Session)
}

// TickRecorder is notified once per tick
type TickRecorder interface {
	RecordTick() bool
}

// Config holds the runner's collaborators and limits. Nil collaborators are skipped.
type Config struct {
	// MaxTicks stops Run after this many ticks. 0 runs until the context ends.
	MaxTicks int
	// RenderEvery renders on every Nth tick. 0 disables rendering.
	RenderEvery int
	Rewards     *experience.RewardConfig
	Renderer    Renderer
	Monitor     TickRecorder
	Publisher   events.Publisher
}

// TickResult describes one completed tick
type TickResult struct {
	Tick   int
	Action game.Action
	Mode   agent.Mode
	Reward float64
	Done   bool
	Train  agent.TrainResult
}

// Runner drives the observe, act, learn loop for one session
type Runner struct {
	cfg     Config
	session *game.Session
	encoder *agent.Encoder
	agent   *agent.Agent

	tick         int
	episodeTicks int
	episodeStart time.Time

	logger zerolog.Logger
}

// NewRunner wires a session, its encoder and an agent into a runner
func NewRunner(cfg Config, session *game.Session, encoder *agent.Encoder, ag *agent.Agent, logger zerolog.Logger) *Runner {
	if cfg.Rewards == nil {
		cfg.Rewards = experience.DefaultRewardConfig()
	}
	if cfg.Publisher == nil {
		cfg.Publisher = events.NopPublisher{}
	}

	return &Runner{
		cfg:          cfg,
		session:      session,
		encoder:      encoder,
		agent:        ag,
		episodeStart: time.Now(),
		logger:       logger.With().Str("component", "runner").Str("session_id", session.ID()).Logger(),
	}
}

// Tick runs one step: observe, act, observe again, reward, remember, train, render,
// and reset the board when the step ended the episode.
func (r *Runner) Tick(ctx context.Context) (TickResult, error) {
	s := r.session
	state := r.encoder.Encode(s)

	action, mode, err := r.agent.ChooseAction(ctx, state)
	if err != nil {
		return TickResult{}, fmt.Errorf("tick %d: %w", r.tick+1, err)
	}
	s.Apply(action)

	nextState := r.encoder.Encode(s)
	reward := experience.CalculateRewardWithConfig(s.TakeClearedLines(), r.cfg.Rewards)

	// A spawn collision already emptied the board, so the flag is the reliable signal.
	spawnCollided := s.TakeGameOver()
	done := spawnCollided || s.IsGameOver()

	r.agent.Remember(experience.Transition{
		State:     state,
		Action:    action,
		Reward:    reward,
		NextState: nextState,
		Done:      done,
	})

	r.tick++
	r.episodeTicks++

	train, err := r.agent.TrainStep(ctx)
	if err != nil {
		return TickResult{}, fmt.Errorf("tick %d: %w", r.tick, err)
	}
	if train.Trained {
		r.cfg.Publisher.Publish(events.NewTrainingStepEvent(
			s.ID(), r.tick, r.agent.Steps(), train.Loss, train.Epsilon, r.agent.Memory().Len()))
	}

	if r.cfg.Renderer != nil && r.cfg.RenderEvery > 0 && r.tick%r.cfg.RenderEvery == 0 {
		r.cfg.Renderer.Render(s)
	}

	if done {
		r.endEpisode(spawnCollided)
	}

	if r.cfg.Monitor != nil {
		r.cfg.Monitor.RecordTick()
	}

	return TickResult{
		Tick:   r.tick,
		Action: action,
		Mode:   mode,
		Reward: reward,
		Done:   done,
		Train:  train,
	}, nil
}

func (r *Runner) endEpisode(spawnCollided bool) {
	s := r.session
	score := s.Score()
	if spawnCollided {
		score = s.LastFinalScore()
	}

	r.cfg.Publisher.Publish(events.NewEpisodeEndedEvent(
		s.ID(), s.Episode(), score, s.EpisodeLines(), r.episodeTicks, time.Since(r.episodeStart)))

	r.logger.Debug().
		Int("episode", s.Episode()).
		Int("score", score).
		Int("ticks", r.episodeTicks).
		Msg("Episode ended")

	s.Reset()
	r.episodeTicks = 0
	r.episodeStart = time.Now()
}

// Run ticks until the context is done or MaxTicks is reached. It never sleeps.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info().
		Int("max_ticks", r.cfg.MaxTicks).
		Int("state_size", r.encoder.Size()).
		Msg("Starting training loop")

	for r.cfg.MaxTicks == 0 || r.tick < r.cfg.MaxTicks {
		select {
		case <-ctx.Done():
			r.logger.Info().Int("ticks", r.tick).Msg("Training loop cancelled")
			return nil
		default:
		}

		if _, err := r.Tick(ctx); err != nil {
			if ctx.Err() != nil {
				r.logger.Info().Int("ticks", r.tick).Msg("Training loop cancelled")
				return nil
			}
			return err
		}
	}

	r.logger.Info().Int("ticks", r.tick).Msg("Training loop reached tick limit")
	return nil
}

// Ticks returns the number of completed ticks
func (r *Runner) Ticks() int { return r.tick }

// Session returns the driven session
func (r *Runner) Session() *game.Session { return r.session }

// Agent returns the learning agent
func (r *Runner) Agent() *agent.Agent { return r.agent }
