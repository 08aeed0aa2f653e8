package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/model"
)

func newPortal(allowReattempt bool) (*PortalService, *memTests, *memCandidates) {
	tests := newMemTests()
	seed(tests)
	cands := newMemCandidates()
	catalog := NewCatalogService(tests, nil, time.Minute, zerolog.Nop())
	return NewPortalService(tests, catalog, cands, allowReattempt, zerolog.Nop()), tests, cands
}

func TestOpenAttemptEnrolls(t *testing.T) {
	p, _, cands := newPortal(false)

	sum, err := p.OpenAttempt(context.Background(), "Ada@Example.com", "t1")
	if err != nil {
		t.Fatalf("OpenAttempt: %v", err)
	}
	if !sum.Attempted || sum.QuestionCount != 1 {
		t.Fatalf("summary = %+v", sum)
	}
	c, err := cands.GetByEmail(context.Background(), "ada@example.com")
	if err != nil || len(c.Tests) != 1 || c.Tests[0] != "t1" {
		t.Fatalf("candidate = %+v, %v", c, err)
	}

	list, err := p.ListRunning(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("ListRunning: %v", err)
	}
	if len(list) != 1 || !list[0].Attempted {
		t.Fatalf("list = %+v", list)
	}
}

func TestAuthorizeRejections(t *testing.T) {
	p, tests, _ := newPortal(false)
	ctx := context.Background()

	_ = tests.UpdateReport(ctx, "t1", func(cur []model.ReportEntry) ([]model.ReportEntry, error) {
		return append(cur, model.ReportEntry{Email: "ada@example.com"}), nil
	})
	test, _ := tests.GetByID(ctx, "t1")

	if err := p.Authorize(ctx, "ADA@example.com", test); !errors.Is(err, ErrAlreadyAttempted) {
		t.Fatalf("err = %v, want ErrAlreadyAttempted", err)
	}
	if err := p.Authorize(ctx, "bob@example.com", test); err != nil {
		t.Fatalf("other candidate rejected: %v", err)
	}

	_ = tests.End(ctx, "t1")
	test, _ = tests.GetByID(ctx, "t1")
	if err := p.Authorize(ctx, "bob@example.com", test); !errors.Is(err, ErrTestNotRunning) {
		t.Fatalf("err = %v, want ErrTestNotRunning", err)
	}
}

func TestAuthorizeAllowsReattempt(t *testing.T) {
	p, tests, _ := newPortal(true)
	ctx := context.Background()
	_ = tests.UpdateReport(ctx, "t1", func(cur []model.ReportEntry) ([]model.ReportEntry, error) {
		return append(cur, model.ReportEntry{Email: "ada@example.com"}), nil
	})
	test, _ := tests.GetByID(ctx, "t1")

	if err := p.Authorize(ctx, "ada@example.com", test); err != nil {
		t.Fatalf("reattempt rejected: %v", err)
	}
}

func TestLifecycleInvalidatesAndToggles(t *testing.T) {
	tests := newMemTests()
	seed(tests)
	catalog := NewCatalogService(tests, nil, time.Minute, zerolog.Nop())
	lc := NewLifecycleService(tests, catalog, zerolog.Nop())
	ctx := context.Background()

	if err := lc.End(ctx, "t1"); err != nil {
		t.Fatal(err)
	}
	if tt, _ := catalog.LoadTest(ctx, "t1"); tt.Status() != model.TestStatusCompleted {
		t.Fatalf("status = %s", tt.Status())
	}
	if err := lc.Reconduct(ctx, "t1"); err != nil {
		t.Fatal(err)
	}
	if tt, _ := catalog.LoadTest(ctx, "t1"); tt.Status() != model.TestStatusRunning {
		t.Fatalf("status = %s", tt.Status())
	}
	if err := lc.Start(ctx, "missing"); err == nil {
		t.Fatal("expected not found")
	}
}

func TestCatalogStripsReport(t *testing.T) {
	tests := newMemTests()
	seed(tests)
	_ = tests.UpdateReport(context.Background(), "t1", func(cur []model.ReportEntry) ([]model.ReportEntry, error) {
		return append(cur, model.ReportEntry{Email: "a@x.io"}), nil
	})
	catalog := NewCatalogService(tests, nil, time.Minute, zerolog.Nop())

	tt, err := catalog.LoadTest(context.Background(), "t1")
	if err != nil {
		t.Fatal(err)
	}
	if len(tt.Report) != 0 {
		t.Fatal("catalog leaked the report")
	}
	q, err := catalog.LoadQuestion(context.Background(), "q1")
	if err != nil || len(q.TestCases) != 1 {
		t.Fatalf("question = %+v, %v", q, err)
	}
}
