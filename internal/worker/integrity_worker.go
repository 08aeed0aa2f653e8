package worker

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/config"
	"github.com/stemsi/codetest-backend/internal/model"
)

// IntegrityQueue buffers integrity events in Redis for the IntegrityWorker.
type IntegrityQueue struct {
	rdb *redis.Client
}

func NewIntegrityQueue(rdb *redis.Client) *IntegrityQueue {
	return &IntegrityQueue{rdb: rdb}
}

// Record queues one event.
func (q *IntegrityQueue) Record(ctx context.Context, ev model.IntegrityEvent) error {
	return push(ctx, q.rdb, config.WorkerKey.PersistIntegrityQueue, ev)
}

// IntegrityWorker persists queued integrity events into integrity_events.
type IntegrityWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

func NewIntegrityWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *IntegrityWorker {
	return &IntegrityWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "integrity_worker").Logger(),
	}
}

func (w *IntegrityWorker) Start(ctx context.Context) {
	w.log.Info().Msg("IntegrityWorker started")
	consume(ctx, w.rdb, config.WorkerKey.PersistIntegrityQueue, w.log, w.flushSafe)
}

// flushSafe attempts a bulk copy, then row-by-row inserts, then requeues.
func (w *IntegrityWorker) flushSafe(ctx context.Context, batch []*model.IntegrityEvent) {
	if err := w.bulkInsert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("count", len(batch)).Msg("Bulk insert failed, attempting row-by-row recovery")
		w.fallbackInsert(ctx, batch)
	}
}

func (w *IntegrityWorker) bulkInsert(ctx context.Context, batch []*model.IntegrityEvent) error {
	_, err := w.pool.CopyFrom(
		ctx,
		pgx.Identifier{"integrity_events"},
		[]string{"test_id", "email", "kind", "count", "recorded_at"},
		pgx.CopyFromRows(integrityRows(batch)),
	)
	return err
}

func integrityRows(batch []*model.IntegrityEvent) [][]any {
	rows := make([][]any, 0, len(batch))
	for _, ev := range batch {
		rows = append(rows, []any{ev.TestID, ev.Email, ev.Kind, ev.Count, recordedAt(ev.RecordedAt)})
	}
	return rows
}

func recordedAt(unix int64) time.Time {
	if unix <= 0 {
		return time.Now().UTC()
	}
	return time.Unix(unix, 0).UTC()
}

func (w *IntegrityWorker) fallbackInsert(ctx context.Context, batch []*model.IntegrityEvent) {
	var failed []*model.IntegrityEvent
	for _, ev := range batch {
		_, err := w.pool.Exec(ctx,
			`INSERT INTO integrity_events (test_id, email, kind, count, recorded_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			ev.TestID, ev.Email, ev.Kind, ev.Count, recordedAt(ev.RecordedAt),
		)
		if err != nil {
			w.log.Error().Err(err).Str("test_id", ev.TestID).Str("email", ev.Email).Msg("Insert failed, requeueing")
			failed = append(failed, ev)
		}
	}
	requeue(ctx, w.rdb, config.WorkerKey.PersistIntegrityQueue, w.log, failed)
}
