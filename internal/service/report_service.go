package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/stemsi/codetest-backend/internal/model"
	"github.com/stemsi/codetest-backend/internal/report"
	"github.com/stemsi/codetest-backend/internal/repository"
)

// TestReport is a page of a test's report with the aggregate over all entries.
type TestReport struct {
	TestID    string                `json:"test_id"`
	TestName  string                `json:"test_name"`
	Status    model.TestStatus      `json:"status"`
	Aggregate report.Aggregate      `json:"aggregate"`
	Entries   []report.EntrySummary `json:"entries"`
}

// ReportService orchestrates report reads and deletions.
type ReportService struct {
	tests      TestStore
	candidates CandidateStore
	writer     *report.Writer
	scores     ScoreReader
}

// NewReportService creates a new ReportService. scores may be nil.
func NewReportService(tests TestStore, candidates CandidateStore, writer *report.Writer, scores ScoreReader) *ReportService {
	return &ReportService{tests: tests, candidates: candidates, writer: writer, scores: scores}
}

// GetReport returns one page of entries in stored order.
func (s *ReportService) GetReport(ctx context.Context, testID string, page, perPage int) (*TestReport, int64, error) {
	t, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		return nil, 0, err
	}

	rows, agg := report.SummarizeAll(t.Report)
	total := int64(len(rows))

	start := (page - 1) * perPage
	if start > len(rows) {
		start = len(rows)
	}
	end := start + perPage
	if end > len(rows) {
		end = len(rows)
	}

	return &TestReport{
		TestID:    t.ID,
		TestName:  t.Name,
		Status:    t.Status(),
		Aggregate: agg,
		Entries:   rows[start:end],
	}, total, nil
}

// DeleteEntry removes a candidate's entry and their enrollment.
func (s *ReportService) DeleteEntry(ctx context.Context, testID, email string) error {
	return s.writer.Delete(ctx, testID, email)
}

// History lists every test the candidate opened with their entry, if any.
func (s *ReportService) History(ctx context.Context, email string) ([]model.CandidateAttempt, error) {
	cand, err := s.candidates.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []model.CandidateAttempt{}, nil
		}
		return nil, fmt.Errorf("get candidate: %w", err)
	}

	tests, err := s.tests.ListByIDs(ctx, cand.Tests)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}

	out := make([]model.CandidateAttempt, 0, len(tests))
	for _, t := range tests {
		a := model.CandidateAttempt{TestID: t.ID, TestName: t.Name}
		if e := report.Find(t.Report, email); e != nil {
			entry := *e
			a.Entry = &entry
		}
		out = append(out, a)
	}
	return out, nil
}

// Leaderboard returns ranked score summaries.
func (s *ReportService) Leaderboard(ctx context.Context, testID string, page, perPage int) ([]repository.ScoreSummary, int64, error) {
	if s.scores == nil {
		return nil, 0, errors.New("score summaries are not configured")
	}
	return s.scores.Leaderboard(ctx, testID, perPage, (page-1)*perPage)
}
