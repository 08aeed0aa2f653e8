package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/config"
	"github.com/stemsi/codetest-backend/internal/model"
	"golang.org/x/sync/singleflight"
)

// CatalogService resolves tests and questions for sessions. Definitions are
// cached in Redis, and concurrent misses for the same key share one store read.
type CatalogService struct {
	store TestStore
	rdb   *redis.Client
	ttl   time.Duration
	group singleflight.Group
	log   zerolog.Logger
}

// NewCatalogService creates a new CatalogService. rdb may be nil to disable caching.
func NewCatalogService(store TestStore, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		store: store,
		rdb:   rdb,
		ttl:   ttl,
		log:   log.With().Str("component", "catalog_service").Logger(),
	}
}

// LoadTest returns the test definition without its report.
func (s *CatalogService) LoadTest(ctx context.Context, testID string) (*model.Test, error) {
	key := config.CacheKey.TestDefinitionKey(testID)
	var t model.Test
	err := s.cached(ctx, key, &t, func() (any, error) {
		full, err := s.store.GetByID(ctx, testID)
		if err != nil {
			return nil, err
		}
		def := *full
		def.Report = nil
		return &def, nil
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadQuestion returns a question with all its cases.
func (s *CatalogService) LoadQuestion(ctx context.Context, questionID string) (*model.Question, error) {
	key := config.CacheKey.QuestionKey(questionID)
	var q model.Question
	err := s.cached(ctx, key, &q, func() (any, error) {
		return s.store.GetQuestion(ctx, questionID)
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Invalidate drops a cached test definition after its lifecycle flags change.
func (s *CatalogService) Invalidate(ctx context.Context, testID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, config.CacheKey.TestDefinitionKey(testID)).Err(); err != nil {
		s.log.Warn().Err(err).Str("test_id", testID).Msg("Failed to invalidate test cache")
	}
}

// cached decodes key into dst, filling it from load on a miss.
func (s *CatalogService) cached(ctx context.Context, key string, dst any, load func() (any, error)) error {
	if s.rdb != nil {
		data, err := s.rdb.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			if jerr := json.Unmarshal(data, dst); jerr == nil {
				return nil
			}
			s.log.Warn().Str("key", key).Msg("Discarding undecodable cache entry")
		case !errors.Is(err, redis.Nil):
			s.log.Warn().Err(err).Str("key", key).Msg("Cache read failed, falling back to store")
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		val, err := load()
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", key, err)
		}
		if s.rdb != nil {
			if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
				s.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
			}
		}
		return data, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(v.([]byte), dst)
}
