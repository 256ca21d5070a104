package events

import (
	"time"
)

// Event type constants
const (
	TypeEpisodeStarted = "episode.started"
	TypeEpisodeEnded   = "episode.ended"
	TypePieceSpawned   = "piece.spawned"
	TypePieceLocked    = "piece.locked"
	TypeLinesCleared   = "lines.cleared"
	TypeTrainingStep   = "training.step"
)

// EpisodeStartedEvent is published when a fresh board is handed to the agent
type EpisodeStartedEvent struct {
	BaseEvent
	Metadata    EventMetadata
	BoardWidth  int
	BoardHeight int
}

// NewEpisodeStartedEvent creates a new EpisodeStartedEvent
func NewEpisodeStartedEvent(sessionID string, episode, width, height int) *EpisodeStartedEvent {
	return &EpisodeStartedEvent{
		BaseEvent:   newBase(TypeEpisodeStarted, sessionID),
		Metadata:    EventMetadata{Episode: episode},
		BoardWidth:  width,
		BoardHeight: height,
	}
}

// EpisodeEndedEvent is published when a spawned piece collides and the board resets
type EpisodeEndedEvent struct {
	BaseEvent
	Metadata     EventMetadata
	FinalScore   int
	LinesCleared int
	Ticks        int
	Duration     time.Duration
}

// NewEpisodeEndedEvent creates a new EpisodeEndedEvent
func NewEpisodeEndedEvent(sessionID string, episode, score, lines, ticks int, duration time.Duration) *EpisodeEndedEvent {
	return &EpisodeEndedEvent{
		BaseEvent:    newBase(TypeEpisodeEnded, sessionID),
		Metadata:     EventMetadata{Episode: episode},
		FinalScore:   score,
		LinesCleared: lines,
		Ticks:        ticks,
		Duration:     duration,
	}
}

// PieceSpawnedEvent is published every time a new active piece is placed at the top
type PieceSpawnedEvent struct {
	BaseEvent
	Metadata  EventMetadata
	PieceType string
	X         int
	GameOver  bool
}

// NewPieceSpawnedEvent creates a new PieceSpawnedEvent
func NewPieceSpawnedEvent(sessionID string, episode int, pieceType string, x int, gameOver bool) *PieceSpawnedEvent {
	return &PieceSpawnedEvent{
		BaseEvent: newBase(TypePieceSpawned, sessionID),
		Metadata:  EventMetadata{Episode: episode},
		PieceType: pieceType,
		X:         x,
		GameOver:  gameOver,
	}
}

// PieceLockedEvent is published when the active piece merges into the board
type PieceLockedEvent struct {
	BaseEvent
	Metadata  EventMetadata
	PieceType string
	X, Y      int
}

// NewPieceLockedEvent creates a new PieceLockedEvent
func NewPieceLockedEvent(sessionID string, episode int, pieceType string, x, y int) *PieceLockedEvent {
	return &PieceLockedEvent{
		BaseEvent: newBase(TypePieceLocked, sessionID),
		Metadata:  EventMetadata{Episode: episode},
		PieceType: pieceType,
		X:         x,
		Y:         y,
	}
}

// LinesClearedEvent is published when a sweep removes at least one row
type LinesClearedEvent struct {
	BaseEvent
	Metadata EventMetadata
	Count    int
	Score    int
}

// NewLinesClearedEvent creates a new LinesClearedEvent
func NewLinesClearedEvent(sessionID string, episode, count, score int) *LinesClearedEvent {
	return &LinesClearedEvent{
		BaseEvent: newBase(TypeLinesCleared, sessionID),
		Metadata:  EventMetadata{Episode: episode},
		Count:     count,
		Score:     score,
	}
}

// TrainingStepEvent is published after each model fit
type TrainingStepEvent struct {
	BaseEvent
	Metadata   EventMetadata
	Step       int
	Loss       float64
	Epsilon    float64
	MemorySize int
}

// NewTrainingStepEvent creates a new TrainingStepEvent
func NewTrainingStepEvent(sessionID string, tick, step int, loss, epsilon float64, memorySize int) *TrainingStepEvent {
	return &TrainingStepEvent{
		BaseEvent:  newBase(TypeTrainingStep, sessionID),
		Metadata:   EventMetadata{Tick: tick},
		Step:       step,
		Loss:       loss,
		Epsilon:    epsilon,
		MemorySize: memorySize,
	}
}
