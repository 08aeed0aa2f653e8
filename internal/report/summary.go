package report

import (
	"github.com/stemsi/codetest-backend/internal/grading"
	"github.com/stemsi/codetest-backend/internal/model"
)

// EntrySummary is a report row with its totals.
type EntrySummary struct {
	model.ReportEntry
	Totals grading.Total `json:"totals"`
}

// Aggregate is the test-wide sum across all entries.
type Aggregate struct {
	Candidates int           `json:"candidates"`
	Totals     grading.Total `json:"totals"`
}

// Summarize attaches totals to an entry.
func Summarize(entry model.ReportEntry) EntrySummary {
	return EntrySummary{ReportEntry: entry, Totals: grading.Totals(entry.Questions)}
}

// SummarizeAll summarizes every entry and the whole report.
func SummarizeAll(report []model.ReportEntry) ([]EntrySummary, Aggregate) {
	rows := make([]EntrySummary, 0, len(report))
	var all []model.QuestionResult
	for _, e := range report {
		rows = append(rows, Summarize(e))
		all = append(all, e.Questions...)
	}
	return rows, Aggregate{Candidates: len(report), Totals: grading.Totals(all)}
}
