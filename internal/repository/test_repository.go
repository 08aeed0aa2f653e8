package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/codetest-backend/internal/model"
	"github.com/stemsi/codetest-backend/internal/report"
)

const testColumns = `id, name, duration_minutes, question_ids, started, ended, created_at, conducted_at`

// TestRepository handles test and question data access in PostgreSQL.
type TestRepository struct {
	pool *pgxpool.Pool
}

// NewTestRepository creates a new TestRepository.
func NewTestRepository(pool *pgxpool.Pool) *TestRepository {
	return &TestRepository{pool: pool}
}

func scanTest(row pgx.Row, withReport bool) (*model.Test, error) {
	t := &model.Test{}
	dest := []any{&t.ID, &t.Name, &t.DurationMinutes, &t.QuestionIDs, &t.Started, &t.Ended, &t.CreatedAt, &t.ConductedAt}
	if withReport {
		dest = append(dest, &t.Report)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// GetByID retrieves a test with its report.
func (r *TestRepository) GetByID(ctx context.Context, id string) (*model.Test, error) {
	return scanTest(r.pool.QueryRow(ctx,
		`SELECT `+testColumns+`, report FROM tests WHERE id = $1`, id), true)
}

// GetQuestion retrieves a question with its ordered test cases.
func (r *TestRepository) GetQuestion(ctx context.Context, id string) (*model.Question, error) {
	q := &model.Question{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, test_cases FROM questions WHERE id = $1`, id,
	).Scan(&q.ID, &q.Name, &q.Description, &q.TestCases)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return q, nil
}

// ListRunning returns started tests that have not ended, without reports.
func (r *TestRepository) ListRunning(ctx context.Context) ([]model.Test, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+testColumns+`
		 FROM tests WHERE started AND NOT ended
		 ORDER BY conducted_at DESC NULLS LAST`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []model.Test
	for rows.Next() {
		t, err := scanTest(rows, false)
		if err != nil {
			return nil, err
		}
		tests = append(tests, *t)
	}
	return tests, rows.Err()
}

// ListByIDs returns the given tests with their reports, newest first.
func (r *TestRepository) ListByIDs(ctx context.Context, ids []string) ([]model.Test, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+testColumns+`, report
		 FROM tests WHERE id = ANY($1)
		 ORDER BY created_at DESC`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []model.Test
	for rows.Next() {
		t, err := scanTest(rows, true)
		if err != nil {
			return nil, err
		}
		tests = append(tests, *t)
	}
	return tests, rows.Err()
}

// UpdateReport applies fn to the test's report under a row lock, so concurrent
// writers for the same test are serialized and none is lost.
func (r *TestRepository) UpdateReport(ctx context.Context, testID string, fn report.UpdateFunc) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var current []model.ReportEntry
	err = tx.QueryRow(ctx, `SELECT report FROM tests WHERE id = $1 FOR UPDATE`, testID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock report: %w", err)
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	if next == nil {
		next = []model.ReportEntry{}
	}

	if _, err := tx.Exec(ctx, `UPDATE tests SET report = $1 WHERE id = $2`, next, testID); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return tx.Commit(ctx)
}

// Start marks the test as running.
func (r *TestRepository) Start(ctx context.Context, id string, at time.Time) error {
	return r.execOne(ctx,
		`UPDATE tests SET started = TRUE, ended = FALSE, conducted_at = $2 WHERE id = $1`, id, at)
}

// End closes the test for new attempts.
func (r *TestRepository) End(ctx context.Context, id string) error {
	return r.execOne(ctx, `UPDATE tests SET ended = TRUE WHERE id = $1`, id)
}

// Reconduct reopens an ended test. Existing report entries are kept.
func (r *TestRepository) Reconduct(ctx context.Context, id string) error {
	return r.execOne(ctx, `UPDATE tests SET ended = FALSE WHERE id = $1 AND started`, id)
}

func (r *TestRepository) execOne(ctx context.Context, sql string, args ...any) error {
	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Create inserts a test together with its questions in one transaction.
func (r *TestRepository) Create(ctx context.Context, t *model.Test, questions []model.Question) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, q := range questions {
		batch.Queue(
			`INSERT INTO questions (id, name, description, test_cases)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO UPDATE
			 SET name = EXCLUDED.name, description = EXCLUDED.description, test_cases = EXCLUDED.test_cases`,
			q.ID, strings.TrimSpace(q.Name), q.Description, q.TestCases)
	}
	batch.Queue(
		`INSERT INTO tests (id, name, duration_minutes, question_ids)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		t.ID, t.Name, t.DurationMinutes, t.QuestionIDs).QueryRow(func(row pgx.Row) error {
		return row.Scan(&t.CreatedAt)
	})

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert test: %w", err)
	}
	return tx.Commit(ctx)
}
