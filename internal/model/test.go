package model

import (
	"time"
)

// TestStatus is derived from the started/ended lifecycle flags.
type TestStatus string

const (
	TestStatusScheduled TestStatus = "SCHEDULED"
	TestStatusRunning   TestStatus = "RUNNING"
	TestStatusCompleted TestStatus = "COMPLETED"
)

// Test is a timed set of questions candidates attempt.
type Test struct {
	ID              string        `json:"id" bson:"_id"`
	Name            string        `json:"name" bson:"name"`
	DurationMinutes int           `json:"duration_minutes" bson:"duration_minutes"`
	QuestionIDs     []string      `json:"question_ids" bson:"question_ids"`
	Started         bool          `json:"started" bson:"started"`
	Ended           bool          `json:"ended" bson:"ended"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	ConductedAt     *time.Time    `json:"conducted_at,omitempty" bson:"conducted_at,omitempty"`
	Report          []ReportEntry `json:"report,omitempty" bson:"report"`
}

// Status reports where the test is in its lifecycle.
func (t *Test) Status() TestStatus {
	switch {
	case !t.Started:
		return TestStatusScheduled
	case t.Ended:
		return TestStatusCompleted
	default:
		return TestStatusRunning
	}
}

// DurationSeconds is the countdown length for one attempt.
func (t *Test) DurationSeconds() int {
	return t.DurationMinutes * 60
}

// TestSummary is the candidate-facing listing of a running test.
type TestSummary struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	DurationMinutes int        `json:"duration_minutes"`
	QuestionCount   int        `json:"question_count"`
	ConductedAt     *time.Time `json:"conducted_at,omitempty"`
	Attempted       bool       `json:"attempted"`
}

// SeedTestRequest creates a test together with its questions.
type SeedTestRequest struct {
	Name            string     `json:"name" toml:"name" binding:"required,min=3,max=255"`
	DurationMinutes int        `json:"duration_minutes" toml:"duration_minutes" binding:"required,min=1,max=480"`
	Questions       []Question `json:"questions" toml:"questions" binding:"required,min=1,dive"`
}
