package integrity

import (
	"context"
	"sync"
)

// DefaultThreshold is the number of focus losses that forces submission.
const DefaultThreshold = 3

// SignalKind is what the monitor tells the session controller.
type SignalKind string

const (
	SignalNone                 SignalKind = ""
	SignalWarning              SignalKind = "warning"
	SignalForceSubmit          SignalKind = "force_submit"
	SignalNavigationSuppressed SignalKind = "navigation_suppressed"
)

// Signal is emitted for each event the monitor handles.
type Signal struct {
	Kind      SignalKind `json:"kind"`
	Count     int        `json:"count"`
	Threshold int        `json:"threshold"`
}

// State of the monitor.
type State string

const (
	StateActive    State = "ACTIVE"
	StateEscalated State = "ESCALATED"
)

// Monitor counts attention losses and escalates once the threshold is reached.
// It never submits anything itself.
type Monitor struct {
	mu        sync.Mutex
	count     int
	threshold int
	escalated bool
}

// NewMonitor creates a monitor with the default threshold.
func NewMonitor() *Monitor {
	return &Monitor{threshold: DefaultThreshold}
}

// FocusLost records one attention loss. After escalation it returns SignalNone.
func (m *Monitor) FocusLost() Signal {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.escalated {
		return Signal{Kind: SignalNone, Count: m.count, Threshold: m.threshold}
	}

	m.count++
	if m.count >= m.threshold {
		m.escalated = true
		return Signal{Kind: SignalForceSubmit, Count: m.count, Threshold: m.threshold}
	}
	return Signal{Kind: SignalWarning, Count: m.count, Threshold: m.threshold}
}

// NavigateBack records a suppressed back navigation. The count is not affected.
func (m *Monitor) NavigateBack() Signal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Signal{Kind: SignalNavigationSuppressed, Count: m.count, Threshold: m.threshold}
}

// Count returns the number of recorded focus losses.
func (m *Monitor) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// State returns ACTIVE or ESCALATED.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.escalated {
		return StateEscalated
	}
	return StateActive
}

// Escalated reports whether ForceSubmit has fired.
func (m *Monitor) Escalated() bool {
	return m.State() == StateEscalated
}

// Handle applies one event and returns the resulting signal.
func (m *Monitor) Handle(ev Event) Signal {
	switch ev.Kind {
	case EventFocusLost:
		return m.FocusLost()
	case EventNavigateBack:
		return m.NavigateBack()
	default:
		return Signal{Kind: SignalNone, Count: m.Count(), Threshold: m.threshold}
	}
}

// Watch consumes src until ctx is done or the source closes, passing every
// non-empty signal to handle.
func (m *Monitor) Watch(ctx context.Context, src AttentionSource, handle func(Event, Signal)) {
	events := src.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			sig := m.Handle(ev)
			if sig.Kind != SignalNone {
				handle(ev, sig)
			}
		}
	}
}
