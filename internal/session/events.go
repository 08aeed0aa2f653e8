package session

import (
	"github.com/stemsi/codetest-backend/internal/grading"
	"github.com/stemsi/codetest-backend/internal/model"
)

// EventType names what changed in the session.
type EventType string

const (
	EventPhase                EventType = "phase"
	EventTick                 EventType = "tick"
	EventWarning              EventType = "warning"
	EventNavigationSuppressed EventType = "navigation_suppressed"
	EventConfirmRequired      EventType = "confirm_required"
	EventRunResult            EventType = "run_result"
	EventQuestionResult       EventType = "question_result"
	EventSubmitError          EventType = "submit_error"
	EventResults              EventType = "results"
)

// Event is pushed to the EventSink. Data holds one of the *Data types below.
type Event struct {
	Type   EventType   `json:"event"`
	TestID string      `json:"test_id"`
	Email  string      `json:"email"`
	Data   interface{} `json:"data,omitempty"`
}

type PhaseData struct {
	Phase   Phase               `json:"phase"`
	Trigger model.SubmitTrigger `json:"trigger,omitempty"`
}

type TickData struct {
	Remaining int `json:"remaining"`
}

type WarningData struct {
	Count     int `json:"count"`
	Threshold int `json:"threshold"`
}

type RunResultData struct {
	QuestionID string          `json:"question_id"`
	Summary    grading.Summary `json:"summary"`
}

type QuestionResultData struct {
	QuestionID string               `json:"question_id"`
	Result     model.QuestionResult `json:"result"`
	// Preview is always true: only the final submission is authoritative.
	Preview bool `json:"preview"`
}

type SubmitErrorData struct {
	Stage     string `json:"stage"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

type ResultsData struct {
	Entry  model.ReportEntry `json:"entry"`
	Totals grading.Total     `json:"totals"`
}

// EventSink receives session events. Emit must not block for long; it is
// called from the timer and integrity goroutines as well as from callers.
type EventSink interface {
	Emit(ev Event)
}

// SinkFunc adapts a function to EventSink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(ev Event) { f(ev) }

// MultiSink fans events out to several sinks.
type MultiSink []EventSink

func (m MultiSink) Emit(ev Event) {
	for _, s := range m {
		if s != nil {
			s.Emit(ev)
		}
	}
}

type discardSink struct{}

func (discardSink) Emit(Event) {}
