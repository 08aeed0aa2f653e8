package model

// DefaultTimeLimit is the per-case CPU hint in seconds when a case has none.
const DefaultTimeLimit = 5.0

// Legacy sample case names shown to candidates for feedback runs.
var legacySampleNames = map[string]bool{"basic1": true, "basic2": true}

// Question is a programming problem with its ordered test cases.
type Question struct {
	ID          string     `json:"id" bson:"_id" toml:"id"`
	Name        string     `json:"name" bson:"name" toml:"name" binding:"required"`
	Description string     `json:"description" bson:"description" toml:"description"`
	TestCases   []TestCase `json:"test_cases" bson:"test_cases" toml:"test_cases" binding:"dive"`
}

// TestCase is one input/expected-output pair with its score weight.
type TestCase struct {
	Name           string  `json:"name" bson:"name" toml:"name" binding:"required"`
	Input          string  `json:"input" bson:"input" toml:"input"`
	ExpectedOutput string  `json:"expected_output" bson:"expected_output" toml:"expected_output"`
	TimeLimit      float64 `json:"time_limit,omitempty" bson:"time_limit,omitempty" toml:"time_limit"`
	Score          int     `json:"score" bson:"score" toml:"score" binding:"min=0"`
	Sample         bool    `json:"sample,omitempty" bson:"sample,omitempty" toml:"sample"`
}

// IsSample reports whether the case is visible to the candidate in feedback runs.
func (tc TestCase) IsSample() bool {
	return tc.Sample || legacySampleNames[tc.Name]
}

// CPUTimeLimit returns the case's time hint, or DefaultTimeLimit when unset.
func (tc TestCase) CPUTimeLimit() float64 {
	if tc.TimeLimit <= 0 {
		return DefaultTimeLimit
	}
	return tc.TimeLimit
}

// MaxScore is the sum of all case weights.
func (q *Question) MaxScore() int {
	total := 0
	for _, tc := range q.TestCases {
		total += tc.Score
	}
	return total
}

// QuestionForCandidate hides expected outputs of non-sample cases.
type QuestionForCandidate struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Samples     []TestCase `json:"samples"`
	CaseCount   int        `json:"case_count"`
	MaxScore    int        `json:"max_score"`
}

// ForCandidate strips hidden cases from the question.
func (q *Question) ForCandidate() QuestionForCandidate {
	samples := make([]TestCase, 0, 2)
	for _, tc := range q.TestCases {
		if tc.IsSample() {
			samples = append(samples, tc)
		}
	}
	return QuestionForCandidate{
		ID:          q.ID,
		Name:        q.Name,
		Description: q.Description,
		Samples:     samples,
		CaseCount:   len(q.TestCases),
		MaxScore:    q.MaxScore(),
	}
}
