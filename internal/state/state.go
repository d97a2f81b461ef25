// Package state provides thread-safe state management for the application.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-skydome/internal/track"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventRise        EventType = "RISE"
	EventSet         EventType = "SET"
	EventFlip        EventType = "FLIP" // azimuth crossed the 0/180 seam
	EventBodyChanged EventType = "BODY_CHANGED"
)

// Event represents a notable change in the tracked body's position.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Body      string    `json:"body"`
	Elevation float64   `json:"elevation"`
	Azimuth   float64   `json:"azimuth"`
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current state
	current       *track.Sample
	lastUpdate    time.Time
	lastError     error
	fetchDuration time.Duration

	// History buffer
	history       []track.Sample
	maxHistoryLen int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	// Configuration
	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen   int
	MaxEvents       int
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen:   120, // Two minutes at one update per second
		MaxEvents:       50,
		RefreshInterval: time.Second,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		maxHistoryLen:   cfg.MaxHistoryLen,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
	}
}

// Update atomically records a new sample. A nil sample records only the
// error and timing.
func (m *Manager) Update(sample *track.Sample, fetchDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastUpdate = time.Now()
	m.lastError = err
	m.fetchDuration = fetchDuration

	if sample == nil {
		return
	}

	s := *sample
	if m.current != nil {
		m.detectEvents(*m.current, s)
	}
	m.current = &s

	m.history = append(m.history, s)
	if len(m.history) > m.maxHistoryLen {
		m.history = m.history[len(m.history)-m.maxHistoryLen:]
	}
}

// detectEvents compares consecutive samples and logs transitions.
func (m *Manager) detectEvents(prev, cur track.Sample) {
	ev := Event{
		Timestamp: cur.Time,
		Body:      cur.Body,
		Elevation: cur.Elevation,
		Azimuth:   cur.Azimuth,
	}

	if prev.Body != cur.Body {
		ev.Type = EventBodyChanged
		m.addEvent(ev)
		return
	}

	switch {
	case prev.Elevation < 0 && cur.Elevation >= 0:
		ev.Type = EventRise
		m.addEvent(ev)
	case prev.Elevation >= 0 && cur.Elevation < 0:
		ev.Type = EventSet
		m.addEvent(ev)
	}

	if (prev.Azimuth < 180) != (cur.Azimuth < 180) {
		ev.Type = EventFlip
		m.addEvent(ev)
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Sample        *track.Sample
	History       []track.Sample
	LastUpdate    time.Time
	LastError     error
	FetchDuration time.Duration
	Events        []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var cur *track.Sample
	if m.current != nil {
		s := *m.current
		cur = &s
	}

	history := make([]track.Sample, len(m.history))
	copy(history, m.history)

	return Snapshot{
		Sample:        cur,
		History:       history,
		LastUpdate:    m.lastUpdate,
		LastError:     m.lastError,
		FetchDuration: m.fetchDuration,
		Events:        m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval updates the refresh interval.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}

// HasData returns true if at least one sample has been recorded.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}
