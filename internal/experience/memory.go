package experience

import (
	"errors"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/game"
)

const (
	// DefaultCapacity is the replay memory size of the ruleset.
	DefaultCapacity = 5000
)

var (
	// ErrEmptyMemory is returned when sampling from a memory with no records
	ErrEmptyMemory = errors.New("experience memory is empty")
)

// Transition is one recorded step: the encoded state before the action, the action,
// the shaped reward, the encoded state after, and whether the step ended the episode.
// Transitions are never modified after they are stored.
type Transition struct {
	State     []float64
	Action    game.Action
	Reward    float64
	NextState []float64
	Done      bool
}

// Memory is a thread-safe circular buffer of transitions. When full, adding a record
// evicts the oldest one.
type Memory struct {
	mu       sync.RWMutex
	buffer   []Transition
	capacity int
	size     int
	head     int // Write position
	tail     int // Oldest record

	// Statistics
	totalAdded   int64
	totalDropped int64
	totalSampled int64

	logger zerolog.Logger
}

// NewMemory creates a replay memory with the specified capacity
func NewMemory(capacity int, logger zerolog.Logger) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Memory{
		buffer:   make([]Transition, capacity),
		capacity: capacity,
		logger:   logger.With().Str("component", "experience_memory").Logger(),
	}
}

// Add appends a transition, dropping the oldest one first if the memory is full
func (m *Memory) Add(t Transition) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.size >= m.capacity {
		m.buffer[m.tail] = Transition{}
		m.tail = (m.tail + 1) % m.capacity
		m.totalDropped++
	} else {
		m.size++
	}

	m.buffer[m.head] = t
	m.head = (m.head + 1) % m.capacity
	m.totalAdded++

	if m.totalAdded == int64(m.capacity) {
		m.logger.Debug().
			Int("capacity", m.capacity).
			Msg("Memory full, evicting oldest transitions from now on")
	}
}

// Sample draws n transitions uniformly at random with replacement. The memory is
// left untouched.
func (m *Memory) Sample(n int, rng *rand.Rand) ([]Transition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.size == 0 {
		return nil, ErrEmptyMemory
	}

	result := make([]Transition, n)
	for i := range result {
		idx := (m.tail + rng.Intn(m.size)) % m.capacity
		result[i] = m.buffer[idx]
	}
	m.totalSampled += int64(n)

	return result, nil
}

// Contents returns every stored transition, oldest first
func (m *Memory) Contents() []Transition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Transition, m.size)
	for i := range result {
		result[i] = m.buffer[(m.tail+i)%m.capacity]
	}
	return result
}

// GetLatest returns the n most recent transitions, oldest first
func (m *Memory) GetLatest(n int) []Transition {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if n > m.size {
		n = m.size
	}

	result := make([]Transition, n)
	for i := 0; i < n; i++ {
		idx := (m.head - n + i + m.capacity) % m.capacity
		result[i] = m.buffer[idx]
	}
	return result
}

// Len returns the current number of transitions in the memory
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size
}

// Capacity returns the maximum capacity of the memory
func (m *Memory) Capacity() int {
	return m.capacity
}

// IsFull returns true if the memory is at capacity
func (m *Memory) IsFull() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size >= m.capacity
}

// Clear removes all transitions
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.size = 0
	m.head = 0
	m.tail = 0
	m.buffer = make([]Transition, m.capacity)

	m.logger.Debug().Msg("Memory cleared")
}

// Stats returns memory statistics
func (m *Memory) Stats() MemoryStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return MemoryStats{
		CurrentSize:    m.size,
		Capacity:       m.capacity,
		TotalAdded:     m.totalAdded,
		TotalDropped:   m.totalDropped,
		TotalSampled:   m.totalSampled,
		UtilizationPct: float64(m.size) / float64(m.capacity) * 100,
	}
}

// MemoryStats contains memory statistics
type MemoryStats struct {
	CurrentSize    int
	Capacity       int
	TotalAdded     int64
	TotalDropped   int64
	TotalSampled   int64
	UtilizationPct float64
}
