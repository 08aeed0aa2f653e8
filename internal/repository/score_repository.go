package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ScoreSummary is the relational projection of one report entry.
type ScoreSummary struct {
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

// ScoreRepository reads the score_summaries table kept by the scoring worker.
type ScoreRepository struct {
	pool *pgxpool.Pool
}

// NewScoreRepository creates a new ScoreRepository.
func NewScoreRepository(pool *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{pool: pool}
}

// Leaderboard returns a test's summaries ordered by score, then by who finished first.
func (r *ScoreRepository) Leaderboard(ctx context.Context, testID string, limit, offset int) ([]ScoreSummary, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM score_summaries WHERE test_id = $1`, testID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT test_id, email, score, total_score, test_cases_passed, total_test_cases,
		        percent, trigger, duration, submitted_at
		 FROM score_summaries
		 WHERE test_id = $1
		 ORDER BY score DESC, duration ASC, submitted_at ASC
		 LIMIT $2 OFFSET $3`, testID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []ScoreSummary
	for rows.Next() {
		var s ScoreSummary
		if err := rows.Scan(&s.TestID, &s.Email, &s.Score, &s.TotalScore, &s.TestCasesPassed,
			&s.TotalTestCases, &s.Percent, &s.Trigger, &s.Duration, &s.SubmittedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}
