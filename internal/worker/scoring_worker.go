package worker

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/config"
	"github.com/stemsi/codetest-backend/internal/grading"
	"github.com/stemsi/codetest-backend/internal/model"
)

type scorePayload struct {
	TestID          string    `json:"test_id"`
	Email           string    `json:"email"`
	Score           int       `json:"score"`
	TotalScore      int       `json:"total_score"`
	TestCasesPassed int       `json:"test_cases_passed"`
	TotalTestCases  int       `json:"total_test_cases"`
	Percent         float64   `json:"percent"`
	Trigger         string    `json:"trigger"`
	Duration        string    `json:"duration"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

func newScorePayload(testID string, entry model.ReportEntry) scorePayload {
	t := grading.Totals(entry.Questions)
	at := entry.SubmittedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return scorePayload{
		TestID:          testID,
		Email:           strings.ToLower(entry.Email),
		Score:           t.Score,
		TotalScore:      t.TotalScore,
		TestCasesPassed: t.TestCasesPassed,
		TotalTestCases:  t.TotalTestCases,
		Percent:         t.Percent,
		Trigger:         string(entry.Trigger),
		Duration:        entry.Duration,
		SubmittedAt:     at,
	}
}

// ScoreQueue buffers written report entries for the ScoringWorker.
type ScoreQueue struct {
	rdb *redis.Client
}

func NewScoreQueue(rdb *redis.Client) *ScoreQueue {
	return &ScoreQueue{rdb: rdb}
}

// Enqueue queues the entry's totals.
func (q *ScoreQueue) Enqueue(ctx context.Context, testID string, entry model.ReportEntry) error {
	return push(ctx, q.rdb, config.WorkerKey.PersistScoresQueue, newScorePayload(testID, entry))
}

// ScoringWorker upserts queued totals into score_summaries.
type ScoringWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

func NewScoringWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *ScoringWorker {
	return &ScoringWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "scoring_worker").Logger(),
	}
}

func (w *ScoringWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ScoringWorker started")
	consume(ctx, w.rdb, config.WorkerKey.PersistScoresQueue, w.log, w.flushSafe)
}

func (w *ScoringWorker) flushSafe(ctx context.Context, batch []*scorePayload) {
	batch = latestPerCandidate(batch)
	if err := w.bulkUpsert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("Bulk score upsert failed, using fallback")

		var failed []*scorePayload
		for _, p := range batch {
			if err := w.persistSingle(ctx, p); err != nil {
				w.log.Error().Err(err).Str("test_id", p.TestID).Str("email", p.Email).Msg("persistSingle failed, requeueing")
				failed = append(failed, p)
			}
		}
		requeue(ctx, w.rdb, config.WorkerKey.PersistScoresQueue, w.log, failed)
	}
}

// latestPerCandidate keeps the last payload per (test, candidate). One
// INSERT ... ON CONFLICT cannot touch the same row twice.
func latestPerCandidate(batch []*scorePayload) []*scorePayload {
	idx := make(map[[2]string]int, len(batch))
	out := make([]*scorePayload, 0, len(batch))
	for _, p := range batch {
		key := [2]string{p.TestID, p.Email}
		if i, ok := idx[key]; ok {
			out[i] = p
			continue
		}
		idx[key] = len(out)
		out = append(out, p)
	}
	return out
}

const upsertColumns = `
	(test_id, email, score, total_score, test_cases_passed, total_test_cases, percent, trigger, duration, submitted_at)`

const upsertConflict = `
	ON CONFLICT (test_id, email) DO UPDATE SET
		score = EXCLUDED.score,
		total_score = EXCLUDED.total_score,
		test_cases_passed = EXCLUDED.test_cases_passed,
		total_test_cases = EXCLUDED.total_test_cases,
		percent = EXCLUDED.percent,
		trigger = EXCLUDED.trigger,
		duration = EXCLUDED.duration,
		submitted_at = EXCLUDED.submitted_at`

func (w *ScoringWorker) bulkUpsert(ctx context.Context, batch []*scorePayload) error {
	n := len(batch)
	var (
		testIDs   = make([]string, 0, n)
		emails    = make([]string, 0, n)
		scores    = make([]int32, 0, n)
		totals    = make([]int32, 0, n)
		passed    = make([]int32, 0, n)
		cases     = make([]int32, 0, n)
		percents  = make([]float64, 0, n)
		triggers  = make([]string, 0, n)
		durations = make([]string, 0, n)
		at        = make([]time.Time, 0, n)
	)
	for _, p := range batch {
		testIDs = append(testIDs, p.TestID)
		emails = append(emails, p.Email)
		scores = append(scores, int32(p.Score))
		totals = append(totals, int32(p.TotalScore))
		passed = append(passed, int32(p.TestCasesPassed))
		cases = append(cases, int32(p.TotalTestCases))
		percents = append(percents, p.Percent)
		triggers = append(triggers, p.Trigger)
		durations = append(durations, p.Duration)
		at = append(at, p.SubmittedAt)
	}

	query := `INSERT INTO score_summaries` + upsertColumns + `
		SELECT * FROM UNNEST(
			$1::text[], $2::text[], $3::int[], $4::int[], $5::int[],
			$6::int[], $7::float8[], $8::text[], $9::text[], $10::timestamptz[]
		)` + upsertConflict

	_, err := w.pool.Exec(ctx, query, testIDs, emails, scores, totals, passed, cases, percents, triggers, durations, at)
	return err
}

func (w *ScoringWorker) persistSingle(ctx context.Context, p *scorePayload) error {
	_, err := w.pool.Exec(ctx,
		`INSERT INTO score_summaries`+upsertColumns+`
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`+upsertConflict,
		p.TestID, p.Email, p.Score, p.TotalScore, p.TestCasesPassed, p.TotalTestCases,
		p.Percent, p.Trigger, p.Duration, p.SubmittedAt,
	)
	return err
}
