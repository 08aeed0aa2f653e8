package service

//go:generate mockgen -destination=mocks/mock_stores.go -package=mocks . TestStore,CandidateStore,ScoreReader

import (
	"context"
	"time"

	"github.com/stemsi/codetest-backend/internal/model"
	"github.com/stemsi/codetest-backend/internal/report"
	"github.com/stemsi/codetest-backend/internal/repository"
)

// TestStore is the document store behind tests, questions and reports.
// Both repository.TestRepository (PostgreSQL) and
// repository.MongoTestRepository satisfy it.
type TestStore interface {
	GetByID(ctx context.Context, id string) (*model.Test, error)
	GetQuestion(ctx context.Context, id string) (*model.Question, error)
	ListRunning(ctx context.Context) ([]model.Test, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Test, error)
	UpdateReport(ctx context.Context, testID string, fn report.UpdateFunc) error
	Start(ctx context.Context, id string, at time.Time) error
	End(ctx context.Context, id string) error
	Reconduct(ctx context.Context, id string) error
	Create(ctx context.Context, t *model.Test, questions []model.Question) error
}

// CandidateStore keeps enrollment lists.
type CandidateStore interface {
	GetByEmail(ctx context.Context, email string) (*model.Candidate, error)
	Enroll(ctx context.Context, email, testID string) error
	Unenroll(ctx context.Context, email, testID string) error
}

// ScoreReader reads relational score summaries.
type ScoreReader interface {
	Leaderboard(ctx context.Context, testID string, limit, offset int) ([]repository.ScoreSummary, int64, error)
}

var (
	_ TestStore      = (*repository.TestRepository)(nil)
	_ TestStore      = (*repository.MongoTestRepository)(nil)
	_ CandidateStore = (*repository.CandidateRepository)(nil)
	_ CandidateStore = (*repository.MongoCandidateRepository)(nil)
	_ ScoreReader    = (*repository.ScoreRepository)(nil)
)
