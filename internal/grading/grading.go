// Package grading folds judge verdicts into question and test scores.
//
// Everything here is pure. Cases are always walked in the question's stored
// order, so grading the same submission twice yields identical results.
package grading

import (
	"github.com/stemsi/codetest-backend/internal/judge"
	"github.com/stemsi/codetest-backend/internal/model"
)

// CaseVerdict pairs a test case with the judge's verdict for it.
type CaseVerdict struct {
	Case    model.TestCase
	Verdict *judge.Verdict
}

// CaseOutcome is one row of a feedback run.
type CaseOutcome struct {
	Name     string  `json:"name"`
	Input    string  `json:"input"`
	Expected string  `json:"expected,omitempty"`
	Output   string  `json:"output"`
	Status   string  `json:"status"`
	Passed   bool    `json:"passed"`
	Seconds  float64 `json:"seconds"`
}

// Summary is the display-only result of a feedback run.
type Summary struct {
	Cases  []CaseOutcome `json:"cases"`
	Passed int           `json:"passed"`
	Total  int           `json:"total"`
}

// RunSummary reports raw verdicts with pass/fail per case. It does not score.
func RunSummary(results []CaseVerdict) Summary {
	s := Summary{Cases: make([]CaseOutcome, 0, len(results)), Total: len(results)}
	for _, r := range results {
		out := CaseOutcome{
			Name:     r.Case.Name,
			Input:    r.Case.Input,
			Expected: r.Case.ExpectedOutput,
		}
		if r.Verdict != nil {
			out.Output = r.Verdict.Output()
			out.Status = r.Verdict.Status.Description
			out.Passed = r.Verdict.Accepted()
			out.Seconds = r.Verdict.Seconds()
		}
		if out.Passed {
			s.Passed++
		}
		s.Cases = append(s.Cases, out)
	}
	return s
}

// ScoreQuestion grades a full submission. verdicts[i] belongs to q.TestCases[i];
// a missing or nil verdict counts as not accepted.
func ScoreQuestion(q *model.Question, verdicts []*judge.Verdict) model.QuestionResult {
	res := ZeroResult(q)
	for i, tc := range q.TestCases {
		if i >= len(verdicts) || verdicts[i] == nil {
			continue
		}
		if verdicts[i].Accepted() {
			res.TestCasesPassed++
			res.Score += tc.Score
		}
	}
	return res
}

// ZeroResult is a result with full totals and nothing earned.
func ZeroResult(q *model.Question) model.QuestionResult {
	return model.QuestionResult{
		QuestionName:   q.Name,
		TotalTestCases: len(q.TestCases),
		TotalScore:     q.MaxScore(),
	}
}

// SampleCases returns the cases used for feedback runs, in stored order.
func SampleCases(q *model.Question) []model.TestCase {
	var out []model.TestCase
	for _, tc := range q.TestCases {
		if tc.IsSample() {
			out = append(out, tc)
		}
	}
	return out
}

// Total sums a list of question results.
type Total struct {
	Questions       int     `json:"questions"`
	TestCasesPassed int     `json:"test_cases_passed"`
	TotalTestCases  int     `json:"total_test_cases"`
	Score           int     `json:"score"`
	TotalScore      int     `json:"total_score"`
	Percent         float64 `json:"percent"`
}

// Totals sums results.
func Totals(results []model.QuestionResult) Total {
	t := Total{Questions: len(results)}
	for _, r := range results {
		t.TestCasesPassed += r.TestCasesPassed
		t.TotalTestCases += r.TotalTestCases
		t.Score += r.Score
		t.TotalScore += r.TotalScore
	}
	t.Percent = Percent(t.Score, t.TotalScore)
	return t
}

// Percent returns score/total as a percentage. A zero total is fully passed.
func Percent(score, total int) float64 {
	if total <= 0 {
		return 100
	}
	return float64(score) * 100 / float64(total)
}

// FullyPassed reports whether every case of the question passed.
// Questions without cases are trivially passed.
func FullyPassed(r model.QuestionResult) bool {
	return r.TestCasesPassed == r.TotalTestCases
}
