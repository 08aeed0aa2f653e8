package model

// Candidate tracks which tests an identity has opened.
type Candidate struct {
	Email string   `json:"email" bson:"_id"`
	Tests []string `json:"tests" bson:"tests"`
}

// CandidateAttempt pairs a test with the candidate's entry in its report.
type CandidateAttempt struct {
	TestID   string       `json:"test_id"`
	TestName string       `json:"test_name"`
	Entry    *ReportEntry `json:"entry,omitempty"`
}

// IntegrityEvent is an attention-loss or navigation event kept for audit.
type IntegrityEvent struct {
	TestID     string `json:"test_id"`
	Email      string `json:"email"`
	Kind       string `json:"kind"`
	Count      int    `json:"count"`
	RecordedAt int64  `json:"recorded_at"`
}
