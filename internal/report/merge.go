package report

import (
	"github.com/stemsi/codetest-backend/internal/model"
)

// Merge returns report with entry upserted: an entry for the same candidate is
// replaced in place, otherwise entry is appended. The input slice is not modified.
func Merge(report []model.ReportEntry, entry model.ReportEntry) []model.ReportEntry {
	out := make([]model.ReportEntry, len(report), len(report)+1)
	copy(out, report)

	if i := indexOf(out, entry.Email); i >= 0 {
		out[i] = entry
		return out
	}
	return append(out, entry)
}

// Remove drops the candidate's entry. The second result is false when none existed.
func Remove(report []model.ReportEntry, email string) ([]model.ReportEntry, bool) {
	i := indexOf(report, email)
	if i < 0 {
		return report, false
	}
	out := make([]model.ReportEntry, 0, len(report)-1)
	out = append(out, report[:i]...)
	return append(out, report[i+1:]...), true
}

// Find returns the candidate's entry, or nil.
func Find(report []model.ReportEntry, email string) *model.ReportEntry {
	if i := indexOf(report, email); i >= 0 {
		e := report[i]
		return &e
	}
	return nil
}

func indexOf(report []model.ReportEntry, email string) int {
	for i := range report {
		if model.SameCandidate(report[i].Email, email) {
			return i
		}
	}
	return -1
}
