package integrity

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestEscalationFiresOnce(t *testing.T) {
	m := NewMonitor()

	want := []SignalKind{SignalWarning, SignalWarning, SignalForceSubmit, SignalNone, SignalNone}
	forced := 0
	for i, kind := range want {
		sig := m.FocusLost()
		if sig.Kind != kind {
			t.Fatalf("event %d: kind = %q, want %q", i+1, sig.Kind, kind)
		}
		if sig.Kind == SignalForceSubmit {
			forced++
		}
	}

	if forced != 1 {
		t.Fatalf("ForceSubmit fired %d times", forced)
	}
	if m.Count() != 3 {
		t.Fatalf("count = %d, want 3", m.Count())
	}
	if m.State() != StateEscalated {
		t.Fatalf("state = %s", m.State())
	}
}

func TestWarningCarriesCount(t *testing.T) {
	m := NewMonitor()
	if sig := m.FocusLost(); sig.Count != 1 || sig.Threshold != 3 {
		t.Fatalf("first warning = %+v", sig)
	}
	if sig := m.FocusLost(); sig.Count != 2 {
		t.Fatalf("second warning = %+v", sig)
	}
}

func TestNavigateBackDoesNotCount(t *testing.T) {
	m := NewMonitor()
	for i := 0; i < 5; i++ {
		if sig := m.NavigateBack(); sig.Kind != SignalNavigationSuppressed {
			t.Fatalf("kind = %q", sig.Kind)
		}
	}
	if m.Count() != 0 || m.Escalated() {
		t.Fatalf("navigation changed state: count=%d escalated=%v", m.Count(), m.Escalated())
	}
}

func TestConcurrentFocusLossEscalatesOnce(t *testing.T) {
	m := NewMonitor()

	var wg sync.WaitGroup
	var mu sync.Mutex
	forced := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.FocusLost().Kind == SignalForceSubmit {
				mu.Lock()
				forced++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if forced != 1 {
		t.Fatalf("ForceSubmit fired %d times", forced)
	}
}

func TestWatchConsumesSource(t *testing.T) {
	m := NewMonitor()
	src := NewChannelSource(8)

	var got []SignalKind
	done := make(chan struct{})
	go func() {
		m.Watch(context.Background(), src, func(_ Event, sig Signal) {
			got = append(got, sig.Kind)
		})
		close(done)
	}()

	for _, k := range []EventKind{EventFocusLost, EventNavigateBack, EventFocusLost, EventFocusLost, EventFocusLost} {
		if !src.Push(Event{Kind: k, At: time.Now()}) {
			t.Fatalf("push %s rejected", k)
		}
	}
	src.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after source closed")
	}

	want := []SignalKind{SignalWarning, SignalNavigationSuppressed, SignalWarning, SignalForceSubmit}
	if len(got) != len(want) {
		t.Fatalf("signals = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("signals = %v, want %v", got, want)
		}
	}

	if src.Push(Event{Kind: EventFocusLost}) {
		t.Fatal("push after close should be rejected")
	}
}

func TestWatchStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewMonitor().Watch(ctx, NewChannelSource(1), func(Event, Signal) {})
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Watch ignored cancellation")
	}
}
