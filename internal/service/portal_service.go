package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/model"
	"github.com/stemsi/codetest-backend/internal/report"
	"github.com/stemsi/codetest-backend/internal/repository"
)

// Portal errors.
var (
	ErrTestNotRunning   = errors.New("test is not running")
	ErrAlreadyAttempted = errors.New("test already attempted")
)

// PortalService serves the candidate-facing test list and attempt admission.
type PortalService struct {
	tests          TestStore
	catalog        *CatalogService
	candidates     CandidateStore
	allowReattempt bool
	log            zerolog.Logger
}

// NewPortalService creates a new PortalService.
func NewPortalService(tests TestStore, catalog *CatalogService, candidates CandidateStore, allowReattempt bool, log zerolog.Logger) *PortalService {
	return &PortalService{
		tests:          tests,
		catalog:        catalog,
		candidates:     candidates,
		allowReattempt: allowReattempt,
		log:            log.With().Str("component", "portal_service").Logger(),
	}
}

// ListRunning returns the running tests, marking those the candidate has opened.
func (s *PortalService) ListRunning(ctx context.Context, email string) ([]model.TestSummary, error) {
	tests, err := s.tests.ListRunning(ctx)
	if err != nil {
		return nil, fmt.Errorf("list running tests: %w", err)
	}

	enrolled := make(map[string]bool)
	cand, err := s.candidates.GetByEmail(ctx, email)
	switch {
	case err == nil:
		for _, id := range cand.Tests {
			enrolled[id] = true
		}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("get candidate: %w", err)
	}

	out := make([]model.TestSummary, 0, len(tests))
	for _, t := range tests {
		out = append(out, summarize(&t, enrolled[t.ID]))
	}
	return out, nil
}

// Authorize admits a candidate to a running test they have no report entry for,
// unless reattempts are allowed.
func (s *PortalService) Authorize(ctx context.Context, email string, test *model.Test) error {
	if test.Status() != model.TestStatusRunning {
		return ErrTestNotRunning
	}
	if s.allowReattempt {
		return nil
	}

	full, err := s.tests.GetByID(ctx, test.ID)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}
	if report.Find(full.Report, email) != nil {
		return ErrAlreadyAttempted
	}
	return nil
}

// OpenAttempt checks admission and enrolls the candidate in the test.
func (s *PortalService) OpenAttempt(ctx context.Context, email, testID string) (*model.TestSummary, error) {
	test, err := s.catalog.LoadTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if err := s.Authorize(ctx, email, test); err != nil {
		return nil, err
	}
	if err := s.candidates.Enroll(ctx, email, testID); err != nil {
		return nil, fmt.Errorf("enroll candidate: %w", err)
	}

	s.log.Info().Str("test_id", testID).Str("email", email).Msg("Attempt opened")
	sum := summarize(test, true)
	return &sum, nil
}

func summarize(t *model.Test, attempted bool) model.TestSummary {
	return model.TestSummary{
		ID:              t.ID,
		Name:            t.Name,
		DurationMinutes: t.DurationMinutes,
		QuestionCount:   len(t.QuestionIDs),
		ConductedAt:     t.ConductedAt,
		Attempted:       attempted,
	}
}
