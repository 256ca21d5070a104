package monitoring

import (
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/game/events"
)

// ProgressMonitor aggregates training progress from the event bus and logs a
// summary every logEvery ticks.
type ProgressMonitor struct {
	mu       sync.RWMutex
	logEvery int
	started  time.Time

	ticks         int
	episodes      int
	totalLines    int
	bestScore     int
	lastScore     int
	trainingSteps int
	lastLoss      float64
	epsilon       float64
	memorySize    int

	logger zerolog.Logger
}

// NewProgressMonitor creates a monitor. logEvery <= 0 disables periodic reports.
func NewProgressMonitor(logEvery int, logger zerolog.Logger) *ProgressMonitor {
	return &ProgressMonitor{
		logEvery: logEvery,
		started:  time.Now(),
		epsilon:  1,
		logger:   logger.With().Str("component", "progress_monitor").Logger(),
	}
}

// ID implements events.Subscriber
func (pm *ProgressMonitor) ID() string {
	return "progress_monitor"
}

// InterestedIn implements events.Subscriber
func (pm *ProgressMonitor) InterestedIn(eventType string) bool {
	switch eventType {
	case events.TypeEpisodeEnded, events.TypeLinesCleared, events.TypeTrainingStep:
		return true
	}
	return false
}

// HandleEvent implements events.Subscriber
func (pm *ProgressMonitor) HandleEvent(event events.Event) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	switch e := event.(type) {
	case *events.EpisodeEndedEvent:
		pm.episodes++
		pm.lastScore = e.FinalScore
		if e.FinalScore > pm.bestScore {
			pm.bestScore = e.FinalScore
		}
	case *events.LinesClearedEvent:
		pm.totalLines += e.Count
	case *events.TrainingStepEvent:
		pm.trainingSteps++
		pm.lastLoss = e.Loss
		pm.epsilon = e.Epsilon
		pm.memorySize = e.MemorySize
	}
}

// RecordTick counts a tick and reports when the tick count reaches a multiple of
// logEvery. Returns true when a report was written.
func (pm *ProgressMonitor) RecordTick() bool {
	pm.mu.Lock()
	pm.ticks++
	due := pm.logEvery > 0 && pm.ticks%pm.logEvery == 0
	pm.mu.Unlock()

	if due {
		pm.Report()
	}
	return due
}

// Report logs the current metrics
func (pm *ProgressMonitor) Report() {
	m := pm.GetMetrics()
	pm.logger.Info().
		Int("ticks", m.Ticks).
		Int("episodes", m.Episodes).
		Int("total_lines", m.TotalLines).
		Int("best_score", m.BestScore).
		Int("last_score", m.LastScore).
		Int("training_steps", m.TrainingSteps).
		Float64("loss", m.LastLoss).
		Float64("epsilon", m.Epsilon).
		Int("memory_size", m.MemorySize).
		Float64("ticks_per_sec", m.TicksPerSecond).
		Int("goroutines", runtime.NumGoroutine()).
		Msg("Training progress")
}

// GetMetrics returns a snapshot of the current metrics
func (pm *ProgressMonitor) GetMetrics() ProgressMetrics {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	elapsed := time.Since(pm.started).Seconds()
	tps := 0.0
	if elapsed > 0 {
		tps = float64(pm.ticks) / elapsed
	}

	return ProgressMetrics{
		Ticks:          pm.ticks,
		Episodes:       pm.episodes,
		TotalLines:     pm.totalLines,
		BestScore:      pm.bestScore,
		LastScore:      pm.lastScore,
		TrainingSteps:  pm.trainingSteps,
		LastLoss:       pm.lastLoss,
		Epsilon:        pm.epsilon,
		MemorySize:     pm.memorySize,
		TicksPerSecond: tps,
	}
}

// ProgressMetrics contains training statistics
type ProgressMetrics struct {
	Ticks          int     `json:"ticks"`
	Episodes       int     `json:"episodes"`
	TotalLines     int     `json:"total_lines"`
	BestScore      int     `json:"best_score"`
	LastScore      int     `json:"last_score"`
	TrainingSteps  int     `json:"training_steps"`
	LastLoss       float64 `json:"last_loss"`
	Epsilon        float64 `json:"epsilon"`
	MemorySize     int     `json:"memory_size"`
	TicksPerSecond float64 `json:"ticks_per_second"`
}
