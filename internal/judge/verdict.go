package judge

import (
	"strconv"
)

// Judge status ids.
const (
	StatusInQueue           = 1
	StatusProcessing        = 2
	StatusAccepted          = 3
	StatusWrongAnswer       = 4
	StatusTimeLimitExceeded = 5
	StatusCompilationError  = 6
	StatusInternalError     = 13
)

// Status is the judge's categorised outcome.
type Status struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// Verdict is the judge's response to one execution.
type Verdict struct {
	Status        Status `json:"status"`
	Stdout        string `json:"stdout"`
	Stderr        string `json:"stderr"`
	CompileOutput string `json:"compile_output"`
	Message       string `json:"message"`
	Time          string `json:"time"`
	Token         string `json:"token,omitempty"`
}

// Accepted reports whether the execution passed.
func (v *Verdict) Accepted() bool {
	return v.Status.ID == StatusAccepted
}

// Seconds parses the reported execution time. Missing or malformed values read as zero.
func (v *Verdict) Seconds() float64 {
	if v.Time == "" {
		return 0
	}
	s, err := strconv.ParseFloat(v.Time, 64)
	if err != nil {
		return 0
	}
	return s
}

// Output is the text shown to the candidate for this verdict.
func (v *Verdict) Output() string {
	if v.Accepted() {
		if v.Stdout != "" {
			return v.Stdout
		}
		return v.Stderr
	}
	detail := v.Stderr
	if detail == "" {
		detail = v.CompileOutput
	}
	return v.Status.Description + ": " + detail
}
