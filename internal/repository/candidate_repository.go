package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/codetest-backend/internal/model"
)

// CandidateRepository tracks which tests a candidate has opened.
type CandidateRepository struct {
	pool *pgxpool.Pool
}

// NewCandidateRepository creates a new CandidateRepository.
func NewCandidateRepository(pool *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{pool: pool}
}

// GetByEmail retrieves a candidate's enrollment list.
func (r *CandidateRepository) GetByEmail(ctx context.Context, email string) (*model.Candidate, error) {
	c := &model.Candidate{}
	err := r.pool.QueryRow(ctx,
		`SELECT email, tests FROM candidates WHERE email = $1`, strings.ToLower(email),
	).Scan(&c.Email, &c.Tests)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// Enroll adds the test to the candidate's list once.
func (r *CandidateRepository) Enroll(ctx context.Context, email, testID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO candidates (email, tests) VALUES ($1, ARRAY[$2::text])
		 ON CONFLICT (email) DO UPDATE
		 SET tests = CASE WHEN $2 = ANY(candidates.tests) THEN candidates.tests
		                  ELSE array_append(candidates.tests, $2) END`,
		strings.ToLower(email), testID)
	return err
}

// Unenroll removes the test from the candidate's list.
func (r *CandidateRepository) Unenroll(ctx context.Context, email, testID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE candidates SET tests = array_remove(tests, $2) WHERE email = $1`,
		strings.ToLower(email), testID)
	return err
}
