package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	BatchSize    = 50
	BatchTimeout = 2 * time.Second
	PollTimeout  = 1 * time.Second // Must be >= 1s to satisfy Redis
)

// consume pops JSON payloads off a Redis list and hands them to flush in
// batches of up to BatchSize, or whatever arrived within BatchTimeout. On
// shutdown the remaining buffer gets five seconds to flush.
func consume[T any](ctx context.Context, rdb *redis.Client, queue string, log zerolog.Logger, flush func(context.Context, []*T)) {
	buffer := make([]*T, 0, BatchSize)
	lastFlush := time.Now()

	for {
		if len(buffer) > 0 && (len(buffer) >= BatchSize || time.Since(lastFlush) >= BatchTimeout) {
			flush(ctx, buffer)
			buffer = buffer[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			log.Info().Int("pending", len(buffer)).Msg("Worker stopping, flushing remaining buffer")
			if len(buffer) > 0 {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				flush(shutdownCtx, buffer)
				cancel()
			}
			return
		default:
		}

		result, err := rdb.BLPop(ctx, PollTimeout, queue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			log.Error().Err(err).Msg("Redis connection error, sleeping 3s")
			select {
			case <-time.After(3 * time.Second):
			case <-ctx.Done():
			}
			continue
		}
		if len(result) < 2 {
			continue
		}

		var payload T
		if err := json.Unmarshal([]byte(result[1]), &payload); err != nil {
			// A malformed payload can never succeed, so it is dropped.
			log.Error().Err(err).Str("data", result[1]).Msg("Discarding malformed JSON")
			continue
		}
		buffer = append(buffer, &payload)
	}
}

// requeue pushes failed payloads back for a later batch.
func requeue[T any](ctx context.Context, rdb *redis.Client, queue string, log zerolog.Logger, items []*T) {
	if len(items) == 0 {
		return
	}
	pipe := rdb.Pipeline()
	for _, p := range items {
		data, _ := json.Marshal(p)
		pipe.RPush(ctx, queue, data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Error().Err(err).Int("count", len(items)).Msg("CRITICAL: Failed to requeue items to Redis. Data loss occurred.")
		return
	}
	log.Info().Int("count", len(items)).Msg("Requeued failed items back to Redis")

	// Avoid thrashing while the database is down.
	select {
	case <-time.After(2 * time.Second):
	case <-ctx.Done():
	}
}

func push(ctx context.Context, rdb *redis.Client, queue string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return rdb.RPush(ctx, queue, data).Err()
}
