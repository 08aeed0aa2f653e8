package integrity

import (
	"sync"
	"time"
)

// EventKind classifies attention events reported by a client.
type EventKind string

const (
	EventFocusLost    EventKind = "focus_lost"
	EventNavigateBack EventKind = "nav_back"
)

// Event is one attention event.
type Event struct {
	Kind EventKind
	At   time.Time
}

// AttentionSource supplies attention events from whatever platform the
// candidate uses (visibility changes, window focus, process focus).
type AttentionSource interface {
	Events() <-chan Event
}

// ChannelSource is an AttentionSource fed by the caller, e.g. a websocket reader.
type ChannelSource struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

// NewChannelSource creates a source with the given buffer.
func NewChannelSource(buffer int) *ChannelSource {
	return &ChannelSource{ch: make(chan Event, buffer)}
}

func (s *ChannelSource) Events() <-chan Event {
	return s.ch
}

// Push delivers an event. It returns false when the source is closed or the
// buffer is full.
func (s *ChannelSource) Push(ev Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- ev:
		return true
	default:
		return false
	}
}

// Close stops the source. Safe to call more than once.
func (s *ChannelSource) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
