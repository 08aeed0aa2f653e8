package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/model"
	"github.com/stemsi/codetest-backend/internal/report"
)

func TestGetReportPaginates(t *testing.T) {
	tests := newMemTests()
	seed(tests)
	w := report.NewWriter(tests, zerolog.Nop())
	for i := 0; i < 5; i++ {
		e := model.ReportEntry{Email: fmt.Sprintf("c%d@x.io", i), Questions: []model.QuestionResult{
			{QuestionName: "Echo", TestCasesPassed: 1, Score: 10, TotalTestCases: 1, TotalScore: 10},
		}}
		if err := w.Upsert(context.Background(), "t1", e); err != nil {
			t.Fatal(err)
		}
	}
	svc := NewReportService(tests, newMemCandidates(), w, nil)

	rep, total, err := svc.GetReport(context.Background(), "t1", 2, 2)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if total != 5 || len(rep.Entries) != 2 || rep.Entries[0].Email != "c2@x.io" {
		t.Fatalf("page = %+v total = %d", rep.Entries, total)
	}
	if rep.Aggregate.Candidates != 5 || rep.Aggregate.Totals.Score != 50 {
		t.Fatalf("aggregate = %+v", rep.Aggregate)
	}

	rep, _, _ = svc.GetReport(context.Background(), "t1", 9, 2)
	if len(rep.Entries) != 0 {
		t.Fatalf("page past the end = %+v", rep.Entries)
	}
}

func TestHistoryAndDelete(t *testing.T) {
	tests := newMemTests()
	seed(tests)
	cands := newMemCandidates()
	w := report.NewWriter(tests, zerolog.Nop(), report.WithEnrollment(cands))
	svc := NewReportService(tests, cands, w, nil)
	ctx := context.Background()

	_ = cands.Enroll(ctx, "ada@example.com", "t1")
	if err := w.Upsert(ctx, "t1", model.ReportEntry{Email: "ada@example.com", Duration: "00:05:00"}); err != nil {
		t.Fatal(err)
	}

	hist, err := svc.History(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 1 || hist[0].Entry == nil || hist[0].Entry.Duration != "00:05:00" {
		t.Fatalf("history = %+v", hist)
	}

	if err := svc.DeleteEntry(ctx, "t1", "ada@example.com"); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	hist, _ = svc.History(ctx, "ada@example.com")
	if len(hist) != 0 {
		t.Fatalf("history after delete = %+v", hist)
	}
	if err := svc.DeleteEntry(ctx, "t1", "ada@example.com"); !errors.Is(err, report.ErrEntryNotFound) {
		t.Fatalf("err = %v", err)
	}

	hist, err = svc.History(ctx, "nobody@example.com")
	if err != nil || len(hist) != 0 {
		t.Fatalf("unknown candidate: %+v, %v", hist, err)
	}
}
