package worker

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/config"
	"github.com/stemsi/codetest-backend/internal/model"
	"github.com/stemsi/codetest-backend/internal/repository"
)

type pendingEntry struct {
	TestID string            `json:"test_id"`
	Entry  model.ReportEntry `json:"entry"`
}

// EntryWriter writes a graded entry into a test's report.
type EntryWriter interface {
	Upsert(ctx context.Context, testID string, entry model.ReportEntry) error
}

// PendingReportQueue parks graded entries the report store refused.
type PendingReportQueue struct {
	rdb *redis.Client
}

func NewPendingReportQueue(rdb *redis.Client) *PendingReportQueue {
	return &PendingReportQueue{rdb: rdb}
}

// Stash queues the entry for the ReportWorker.
func (q *PendingReportQueue) Stash(ctx context.Context, testID string, entry model.ReportEntry) error {
	return push(ctx, q.rdb, config.WorkerKey.PersistReportQueue, pendingEntry{TestID: testID, Entry: entry})
}

// ReportWorker writes parked entries back into their test reports.
type ReportWorker struct {
	writer EntryWriter
	rdb    *redis.Client
	log    zerolog.Logger
}

func NewReportWorker(writer EntryWriter, rdb *redis.Client, log zerolog.Logger) *ReportWorker {
	return &ReportWorker{
		writer: writer,
		rdb:    rdb,
		log:    log.With().Str("component", "report_worker").Logger(),
	}
}

func (w *ReportWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ReportWorker started")
	consume(ctx, w.rdb, config.WorkerKey.PersistReportQueue, w.log, w.flushSafe)
}

func (w *ReportWorker) flushSafe(ctx context.Context, batch []*pendingEntry) {
	requeue(ctx, w.rdb, config.WorkerKey.PersistReportQueue, w.log, w.writeAll(ctx, batch))
}

// writeAll writes each entry and returns the ones worth another attempt.
// An entry whose test no longer exists is dropped.
func (w *ReportWorker) writeAll(ctx context.Context, batch []*pendingEntry) []*pendingEntry {
	var failed []*pendingEntry
	for _, p := range batch {
		err := w.writer.Upsert(ctx, p.TestID, p.Entry)
		switch {
		case err == nil:
			w.log.Info().Str("test_id", p.TestID).Str("email", p.Entry.Email).Msg("Parked entry written")
		case errors.Is(err, repository.ErrNotFound):
			w.log.Error().Err(err).Str("test_id", p.TestID).Interface("entry", p.Entry).Msg("Test gone, discarding parked entry")
		default:
			w.log.Warn().Err(err).Str("test_id", p.TestID).Str("email", p.Entry.Email).Msg("Parked entry write failed, requeueing")
			failed = append(failed, p)
		}
	}
	return failed
}
