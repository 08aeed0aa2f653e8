package model

import (
	"strings"
	"time"
)

// SubmitTrigger records what ended an attempt.
type SubmitTrigger string

const (
	TriggerManual    SubmitTrigger = "manual"
	TriggerTimeout   SubmitTrigger = "timeout"
	TriggerIntegrity SubmitTrigger = "integrity"
)

// Forced reports whether the trigger bypasses confirmation and must always complete.
func (t SubmitTrigger) Forced() bool {
	return t == TriggerTimeout || t == TriggerIntegrity
}

// QuestionResult is one candidate's outcome on one question.
type QuestionResult struct {
	QuestionName    string `json:"question_name" bson:"question_name"`
	TestCasesPassed int    `json:"test_cases_passed" bson:"test_cases_passed"`
	Score           int    `json:"score" bson:"score"`
	TotalTestCases  int    `json:"total_test_cases" bson:"total_test_cases"`
	TotalScore      int    `json:"total_score" bson:"total_score"`
}

// ReportEntry is a candidate's graded attempt at a test.
type ReportEntry struct {
	Email       string           `json:"email" bson:"email"`
	Duration    string           `json:"duration" bson:"duration"`
	Questions   []QuestionResult `json:"questions" bson:"questions"`
	Trigger     SubmitTrigger    `json:"trigger,omitempty" bson:"trigger,omitempty"`
	Violations  int              `json:"violations" bson:"violations"`
	SubmittedAt time.Time        `json:"submitted_at" bson:"submitted_at"`
}

// SameCandidate compares candidate identities case-insensitively.
func SameCandidate(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
