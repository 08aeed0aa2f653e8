package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/stemsi/codetest-backend/internal/model"
	"github.com/stemsi/codetest-backend/internal/report"
	"github.com/stemsi/codetest-backend/internal/repository"
)

type memTests struct {
	mu        sync.Mutex
	tests     map[string]*model.Test
	questions map[string]*model.Question
	reads     int
}

func newMemTests() *memTests {
	return &memTests{tests: map[string]*model.Test{}, questions: map[string]*model.Question{}}
}

func (m *memTests) GetByID(_ context.Context, id string) (*model.Test, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	t, ok := m.tests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	cp.Report = append([]model.ReportEntry(nil), t.Report...)
	return &cp, nil
}

func (m *memTests) GetQuestion(_ context.Context, id string) (*model.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.questions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (m *memTests) ListRunning(_ context.Context) ([]model.Test, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Test
	for _, t := range m.tests {
		if t.Status() == model.TestStatusRunning {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memTests) ListByIDs(_ context.Context, ids []string) ([]model.Test, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Test
	for _, id := range ids {
		if t, ok := m.tests[id]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memTests) UpdateReport(_ context.Context, testID string, fn report.UpdateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tests[testID]
	if !ok {
		return repository.ErrNotFound
	}
	next, err := fn(t.Report)
	if err != nil {
		return err
	}
	t.Report = next
	return nil
}

func (m *memTests) Start(_ context.Context, id string, at time.Time) error {
	return m.with(id, func(t *model.Test) { t.Started, t.Ended, t.ConductedAt = true, false, &at })
}

func (m *memTests) End(_ context.Context, id string) error {
	return m.with(id, func(t *model.Test) { t.Ended = true })
}

func (m *memTests) Reconduct(_ context.Context, id string) error {
	return m.with(id, func(t *model.Test) { t.Ended = false })
}

func (m *memTests) with(id string, fn func(*model.Test)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tests[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(t)
	return nil
}

func (m *memTests) Create(_ context.Context, t *model.Test, questions []model.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range questions {
		q := questions[i]
		m.questions[q.ID] = &q
	}
	cp := *t
	m.tests[t.ID] = &cp
	return nil
}

type memCandidates struct {
	mu    sync.Mutex
	tests map[string][]string
}

func newMemCandidates() *memCandidates {
	return &memCandidates{tests: map[string][]string{}}
}

func (m *memCandidates) GetByEmail(_ context.Context, email string) (*model.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tests, ok := m.tests[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &model.Candidate{Email: strings.ToLower(email), Tests: append([]string(nil), tests...)}, nil
}

func (m *memCandidates) Enroll(_ context.Context, email, testID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(email)
	for _, id := range m.tests[key] {
		if id == testID {
			return nil
		}
	}
	m.tests[key] = append(m.tests[key], testID)
	return nil
}

func (m *memCandidates) Unenroll(_ context.Context, email, testID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(email)
	var keep []string
	for _, id := range m.tests[key] {
		if id != testID {
			keep = append(keep, id)
		}
	}
	m.tests[key] = keep
	return nil
}

// seed adds a running test t1 with one question worth 10.
func seed(m *memTests) {
	now := time.Now()
	_ = m.Create(context.Background(), &model.Test{
		ID: "t1", Name: "Round 1", DurationMinutes: 30, QuestionIDs: []string{"q1"},
	}, []model.Question{{
		ID: "q1", Name: "Echo",
		TestCases: []model.TestCase{{Name: "basic1", Input: "hi", ExpectedOutput: "hi", Score: 10}},
	}})
	_ = m.Start(context.Background(), "t1", now)
}
