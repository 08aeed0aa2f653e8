package grading

import (
	"reflect"
	"testing"

	"github.com/stemsi/codetest-backend/internal/judge"
	"github.com/stemsi/codetest-backend/internal/model"
)

func accepted() *judge.Verdict {
	return &judge.Verdict{Status: judge.Status{ID: judge.StatusAccepted, Description: "Accepted"}, Stdout: "ok"}
}

func rejected() *judge.Verdict {
	return &judge.Verdict{Status: judge.Status{ID: judge.StatusWrongAnswer, Description: "Wrong Answer"}}
}

func TestScoreQuestionWeightedScenario(t *testing.T) {
	q := &model.Question{
		Name: "sum",
		TestCases: []model.TestCase{
			{Name: "basic1", Score: 5},
			{Name: "hidden1", Score: 10},
		},
	}

	got := ScoreQuestion(q, []*judge.Verdict{accepted(), rejected()})
	want := model.QuestionResult{QuestionName: "sum", TestCasesPassed: 1, Score: 5, TotalTestCases: 2, TotalScore: 15}
	if got != want {
		t.Fatalf("ScoreQuestion = %+v, want %+v", got, want)
	}
}

func TestScoreQuestionBounds(t *testing.T) {
	q := &model.Question{Name: "q", TestCases: []model.TestCase{{Score: 1}, {Score: 2}, {Score: 0}, {Score: 7}}}

	tests := []struct {
		name     string
		verdicts []*judge.Verdict
		full     bool
	}{
		{"all accepted", []*judge.Verdict{accepted(), accepted(), accepted(), accepted()}, true},
		{"none accepted", []*judge.Verdict{rejected(), rejected(), rejected(), rejected()}, false},
		{"mixed", []*judge.Verdict{accepted(), rejected(), accepted(), rejected()}, false},
		{"short verdict list", []*judge.Verdict{accepted()}, false},
		{"nil verdict", []*judge.Verdict{accepted(), nil, accepted(), accepted()}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ScoreQuestion(q, tt.verdicts)
			if r.TotalScore != 10 || r.TotalTestCases != 4 {
				t.Fatalf("totals = %d/%d, want 10/4", r.TotalScore, r.TotalTestCases)
			}
			if r.Score < 0 || r.Score > r.TotalScore {
				t.Fatalf("score %d out of bounds", r.Score)
			}
			if r.TestCasesPassed < 0 || r.TestCasesPassed > r.TotalTestCases {
				t.Fatalf("passed %d out of bounds", r.TestCasesPassed)
			}
			if FullyPassed(r) != tt.full {
				t.Fatalf("FullyPassed = %v, want %v", FullyPassed(r), tt.full)
			}
			if tt.full && r.Score != r.TotalScore {
				t.Fatalf("full pass should earn full score, got %d", r.Score)
			}
		})
	}
}

func TestScoreQuestionIsDeterministic(t *testing.T) {
	q := &model.Question{Name: "q", TestCases: []model.TestCase{{Score: 3}, {Score: 4}}}
	verdicts := []*judge.Verdict{rejected(), accepted()}

	a := ScoreQuestion(q, verdicts)
	b := ScoreQuestion(q, verdicts)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("grading differs: %+v vs %+v", a, b)
	}
}

func TestZeroCaseQuestion(t *testing.T) {
	q := &model.Question{Name: "empty"}

	r := ScoreQuestion(q, nil)
	if r.TotalTestCases != 0 || r.TotalScore != 0 || r.Score != 0 {
		t.Fatalf("unexpected result %+v", r)
	}
	if !FullyPassed(r) {
		t.Fatal("zero-case question should count as passed")
	}
	if p := Totals([]model.QuestionResult{r}).Percent; p != 100 {
		t.Fatalf("Percent = %v, want 100", p)
	}
}

func TestRunSummary(t *testing.T) {
	s := RunSummary([]CaseVerdict{
		{Case: model.TestCase{Name: "basic1", Input: "1 2", ExpectedOutput: "3"}, Verdict: accepted()},
		{Case: model.TestCase{Name: "basic2", Input: "2 2", ExpectedOutput: "4"}, Verdict: rejected()},
	})

	if s.Total != 2 || s.Passed != 1 {
		t.Fatalf("summary = %d/%d", s.Passed, s.Total)
	}
	if !s.Cases[0].Passed || s.Cases[1].Passed {
		t.Fatalf("per-case flags wrong: %+v", s.Cases)
	}
	if s.Cases[1].Output != "Wrong Answer: " {
		t.Fatalf("rejection output = %q", s.Cases[1].Output)
	}
}

func TestSampleCases(t *testing.T) {
	q := &model.Question{TestCases: []model.TestCase{
		{Name: "hidden"},
		{Name: "basic2"},
		{Name: "custom", Sample: true},
		{Name: "basic1"},
	}}

	var names []string
	for _, tc := range SampleCases(q) {
		names = append(names, tc.Name)
	}
	want := []string{"basic2", "custom", "basic1"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("SampleCases = %v, want %v", names, want)
	}
}

func TestTotals(t *testing.T) {
	got := Totals([]model.QuestionResult{
		{TestCasesPassed: 1, Score: 5, TotalTestCases: 2, TotalScore: 15},
		{TestCasesPassed: 3, Score: 5, TotalTestCases: 3, TotalScore: 5},
	})
	if got.Score != 10 || got.TotalScore != 20 || got.TestCasesPassed != 4 || got.TotalTestCases != 5 {
		t.Fatalf("Totals = %+v", got)
	}
	if got.Percent != 50 {
		t.Fatalf("Percent = %v", got.Percent)
	}
}
