package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Speed limits in frames per tick
const (
	MinTickInterval = 1
	MaxTickInterval = 60
)

// Handler turns keyboard input into playback controls for the training window
type Handler struct {
	paused       bool
	stepOnce     bool
	tickInterval int
}

// NewHandler returns a handler that ticks every tickInterval frames
func NewHandler(tickInterval int) *Handler {
	return &Handler{tickInterval: clampInterval(tickInterval)}
}

// Update reads this frame's key presses
func (h *Handler) Update() {
	h.stepOnce = false

	// Space toggles pause
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		h.paused = !h.paused
	}

	// N advances one tick while paused
	if h.paused && inpututil.IsKeyJustPressed(ebiten.KeyN) {
		h.stepOnce = true
	}

	// Up/Down change the speed
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		h.tickInterval = clampInterval(h.tickInterval / 2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		h.tickInterval = clampInterval(h.tickInterval * 2)
	}
}

// ShouldTick reports whether the frame with the given counter should run a tick
func (h *Handler) ShouldTick(frame int) bool {
	if h.paused {
		return h.stepOnce
	}
	return frame%h.tickInterval == 0
}

func (h *Handler) IsPaused() bool { return h.paused }

func (h *Handler) TickInterval() int { return h.tickInterval }

func clampInterval(v int) int {
	if v < MinTickInterval {
		return MinTickInterval
	}
	if v > MaxTickInterval {
		return MaxTickInterval
	}
	return v
}
