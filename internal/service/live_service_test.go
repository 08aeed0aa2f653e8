package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/judge"
	"github.com/stemsi/codetest-backend/internal/model"
	"github.com/stemsi/codetest-backend/internal/report"
	"github.com/stemsi/codetest-backend/internal/session"
)

type echoJudge struct{}

func (echoJudge) Execute(_ context.Context, req judge.Request) (*judge.Verdict, error) {
	if req.ExpectedOutput != nil && *req.ExpectedOutput == req.Stdin {
		return &judge.Verdict{Status: judge.Status{ID: judge.StatusAccepted, Description: "Accepted"}, Stdout: req.Stdin}, nil
	}
	return &judge.Verdict{Status: judge.Status{ID: judge.StatusWrongAnswer, Description: "Wrong Answer"}}, nil
}

type eventLog struct {
	mu     sync.Mutex
	events []session.Event
}

func (l *eventLog) Emit(ev session.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) has(kind session.EventType) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ev := range l.events {
		if ev.Type == kind {
			return true
		}
	}
	return false
}

func newLive(t *testing.T) (*LiveService, *memTests, *memCandidates, *eventLog) {
	t.Helper()
	tests := newMemTests()
	seed(tests)
	cands := newMemCandidates()
	catalog := NewCatalogService(tests, nil, time.Minute, zerolog.Nop())
	portal := NewPortalService(tests, catalog, cands, false, zerolog.Nop())
	monitor := &eventLog{}

	live := NewLiveService(LiveDeps{
		Judge:      echoJudge{},
		Loader:     catalog,
		Writer:     report.NewWriter(tests, zerolog.Nop()),
		Authorizer: portal,
		Enroller:   cands,
		Monitor:    monitor,
	}, zerolog.Nop())
	t.Cleanup(live.Shutdown)
	return live, tests, cands, monitor
}

func TestLiveSessionSubmitsAndLeavesRegistry(t *testing.T) {
	live, tests, cands, monitor := newLive(t)
	ctx := context.Background()
	client := &eventLog{}

	ls, err := live.Attach(ctx, "t1", "Ada@Example.com", client)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if live.Count() != 1 {
		t.Fatalf("count = %d", live.Count())
	}
	if c, _ := cands.GetByEmail(ctx, "ada@example.com"); c == nil || len(c.Tests) != 1 {
		t.Fatal("candidate not enrolled")
	}

	again, err := live.Attach(ctx, "t1", "ada@example.com", client)
	if err != nil || again != ls {
		t.Fatalf("reattach returned a different session: %v", err)
	}

	if err := ls.Controller.SaveDraft("q1", "print(input())", "python", "", false); err != nil {
		t.Fatal(err)
	}
	if err := ls.Controller.RequestSubmit(ctx, model.TriggerManual); err != nil {
		t.Fatal(err)
	}
	if err := ls.Controller.ConfirmSubmit(ctx); err != nil {
		t.Fatalf("ConfirmSubmit: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for live.Count() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if live.Count() != 0 {
		t.Fatal("finished session not reaped")
	}

	tt, _ := tests.GetByID(ctx, "t1")
	if len(tt.Report) != 1 || tt.Report[0].Questions[0].Score != 10 {
		t.Fatalf("report = %+v", tt.Report)
	}
	if !client.has(session.EventResults) || !monitor.has(session.EventResults) {
		t.Fatal("results not delivered to both sinks")
	}

	if _, err := live.Attach(ctx, "t1", "ada@example.com", client); !errors.Is(err, ErrAlreadyAttempted) {
		t.Fatalf("second attempt: %v", err)
	}
	if live.Count() != 0 {
		t.Fatal("rejected session left in registry")
	}
}

func TestLiveDetachStopsClientEvents(t *testing.T) {
	live, _, _, monitor := newLive(t)
	ctx := context.Background()
	client := &eventLog{}

	ls, err := live.Attach(ctx, "t1", "bob@example.com", client)
	if err != nil {
		t.Fatal(err)
	}
	live.Detach(ls)
	_ = ls.Controller.RequestSubmit(ctx, model.TriggerManual)

	if client.has(session.EventConfirmRequired) {
		t.Fatal("detached client still receives events")
	}
	if !monitor.has(session.EventConfirmRequired) {
		t.Fatal("monitor missed the event")
	}
	if snaps := live.Snapshots("t1"); len(snaps) != 1 || snaps[0].Email != "bob@example.com" {
		t.Fatalf("snapshots = %+v", snaps)
	}
}

type failingWriter struct{}

func (failingWriter) Upsert(context.Context, string, model.ReportEntry) error {
	return errors.New("primary stepped down")
}

type parkedEntries struct {
	mu      sync.Mutex
	testIDs []string
	entries []model.ReportEntry
}

func (p *parkedEntries) Stash(_ context.Context, testID string, e model.ReportEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.testIDs = append(p.testIDs, testID)
	p.entries = append(p.entries, e)
	return nil
}

func TestShutdownParksUnwrittenEntry(t *testing.T) {
	tests := newMemTests()
	seed(tests)
	catalog := NewCatalogService(tests, nil, time.Minute, zerolog.Nop())
	parked := &parkedEntries{}
	live := NewLiveService(LiveDeps{
		Judge:    echoJudge{},
		Loader:   catalog,
		Writer:   failingWriter{},
		Fallback: parked,
	}, zerolog.Nop())
	ctx := context.Background()

	ls, err := live.Attach(ctx, "t1", "cy@example.com", &eventLog{})
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := ls.Controller.SaveDraft("q1", "print(input())", "python", "", false); err != nil {
		t.Fatal(err)
	}
	if err := ls.Controller.RequestSubmit(ctx, model.TriggerIntegrity); !errors.Is(err, report.ErrWriteUnavailable) {
		t.Fatalf("RequestSubmit: %v", err)
	}
	if ls.Controller.Phase() != session.PhaseError {
		t.Fatalf("phase = %s", ls.Controller.Phase())
	}

	live.Shutdown()

	parked.mu.Lock()
	defer parked.mu.Unlock()
	if len(parked.entries) != 1 || parked.testIDs[0] != "t1" {
		t.Fatalf("parked = %v %+v", parked.testIDs, parked.entries)
	}
	e := parked.entries[0]
	if e.Email != "cy@example.com" || e.Trigger != model.TriggerIntegrity || e.Questions[0].Score != 10 {
		t.Fatalf("entry = %+v", e)
	}
}
