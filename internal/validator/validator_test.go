package validator

import (
	"strings"
	"testing"

	"github.com/stemsi/codetest-backend/internal/model"
)

func TestStructReportsJSONFieldNames(t *testing.T) {
	Setup()

	req := model.SeedTestRequest{Name: "ab", DurationMinutes: 0}
	fields := Struct(&req)
	if fields == nil {
		t.Fatal("expected validation errors")
	}
	for _, name := range []string{"name", "duration_minutes", "questions"} {
		if _, ok := fields[name]; !ok {
			t.Errorf("missing error for %q in %v", name, fields)
		}
	}
}

func TestStructAcceptsValidRequest(t *testing.T) {
	Setup()

	req := model.SeedTestRequest{
		Name:            "Arrays",
		DurationMinutes: 60,
		Questions: []model.Question{{
			Name:      "Sum",
			TestCases: []model.TestCase{{Name: "sample", Input: "1 2", ExpectedOutput: "3", Score: 10}},
		}},
	}
	if fields := Struct(&req); fields != nil {
		t.Fatalf("unexpected errors: %v", fields)
	}
}

func TestStructRejectsDuplicateCaseNames(t *testing.T) {
	Setup()

	req := model.SeedTestRequest{
		Name:            "Arrays",
		DurationMinutes: 60,
		Questions: []model.Question{{
			Name: "Sum",
			TestCases: []model.TestCase{
				{Name: "basic1", Input: "1 2", ExpectedOutput: "3", Score: 5},
				{Name: "basic1", Input: "2 2", ExpectedOutput: "4", Score: 5},
			},
		}},
	}
	fields := Struct(&req)
	if fields == nil {
		t.Fatal("expected a duplicate name error")
	}
	var found bool
	for field, msg := range fields {
		if strings.HasSuffix(field, "test_cases") && strings.Contains(msg, "unique names") {
			found = true
		}
	}
	if !found {
		t.Errorf("no unique-name error in %v", fields)
	}
}
