package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/config"
	"github.com/stemsi/codetest-backend/internal/session"
)

const monitorPublishTimeout = 2 * time.Second

// MonitorService relays session events to admins through Redis Pub/Sub, so
// every API instance's SSE streams see every session.
type MonitorService struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewMonitorService creates a new MonitorService.
func NewMonitorService(rdb *redis.Client, log zerolog.Logger) *MonitorService {
	return &MonitorService{
		rdb: rdb,
		log: log.With().Str("component", "monitor_service").Logger(),
	}
}

// Emit publishes a session event on the test's monitor channel. Countdown
// ticks are not relayed.
func (s *MonitorService) Emit(ev session.Event) {
	if ev.Type == session.EventTick {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		s.log.Warn().Err(err).Str("event", string(ev.Type)).Msg("Failed to encode monitor event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), monitorPublishTimeout)
	defer cancel()
	if err := s.rdb.Publish(ctx, config.CacheKey.TestMonitorChannel(ev.TestID), payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("test_id", ev.TestID).Msg("Failed to publish monitor event")
	}
}

// Subscribe opens the test's monitor channel. The caller closes it.
func (s *MonitorService) Subscribe(ctx context.Context, testID string) *redis.PubSub {
	return s.rdb.Subscribe(ctx, config.CacheKey.TestMonitorChannel(testID))
}
