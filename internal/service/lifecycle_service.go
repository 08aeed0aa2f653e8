package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LifecycleService starts, ends and reconducts tests.
type LifecycleService struct {
	tests   TestStore
	catalog *CatalogService
	log     zerolog.Logger
}

// NewLifecycleService creates a new LifecycleService.
func NewLifecycleService(tests TestStore, catalog *CatalogService, log zerolog.Logger) *LifecycleService {
	return &LifecycleService{
		tests:   tests,
		catalog: catalog,
		log:     log.With().Str("component", "lifecycle_service").Logger(),
	}
}

// Start opens the test to candidates and stamps conducted_at.
func (s *LifecycleService) Start(ctx context.Context, testID string) error {
	return s.apply(ctx, testID, "start", func() error {
		return s.tests.Start(ctx, testID, time.Now().UTC())
	})
}

// End stops new attempts. Sessions already running finish on their own timer.
func (s *LifecycleService) End(ctx context.Context, testID string) error {
	return s.apply(ctx, testID, "end", func() error {
		return s.tests.End(ctx, testID)
	})
}

// Reconduct reopens an ended test.
func (s *LifecycleService) Reconduct(ctx context.Context, testID string) error {
	return s.apply(ctx, testID, "reconduct", func() error {
		return s.tests.Reconduct(ctx, testID)
	})
}

func (s *LifecycleService) apply(ctx context.Context, testID, action string, fn func() error) error {
	if err := fn(); err != nil {
		return err
	}
	s.catalog.Invalidate(ctx, testID)
	s.log.Info().Str("test_id", testID).Str("action", action).Msg("Test lifecycle changed")
	return nil
}
