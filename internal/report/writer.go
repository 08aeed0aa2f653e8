package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/grading"
	"github.com/stemsi/codetest-backend/internal/model"
)

var (
	// ErrWriteUnavailable matches every failed report write.
	ErrWriteUnavailable = errors.New("write unavailable")
	// ErrEntryNotFound is returned when deleting an entry that does not exist.
	ErrEntryNotFound = errors.New("report entry not found")
)

// WriteError wraps the storage failure behind ErrWriteUnavailable.
type WriteError struct {
	TestID string
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: test %s: %v", ErrWriteUnavailable, e.TestID, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func (e *WriteError) Is(target error) bool {
	return target == ErrWriteUnavailable
}

// UpdateFunc computes a test's new report from its current one.
type UpdateFunc func(current []model.ReportEntry) ([]model.ReportEntry, error)

// Store persists a test's whole report array. UpdateReport must apply fn as one
// atomic read-modify-write of that test document.
type Store interface {
	UpdateReport(ctx context.Context, testID string, fn UpdateFunc) error
}

// Enrollment removes a test from a candidate's attempted list.
type Enrollment interface {
	Unenroll(ctx context.Context, email, testID string) error
}

// Event describes a confirmed report write for downstream consumers.
type Event struct {
	Type   string            `json:"type"`
	TestID string            `json:"test_id"`
	Entry  model.ReportEntry `json:"entry"`
	Totals grading.Total     `json:"totals"`
	At     time.Time         `json:"at"`
}

// Event types.
const (
	EventSubmitted = "report.submitted"
	EventDeleted   = "report.deleted"
)

// Publisher fans report events out. Failures never undo a write.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// SummaryQueue receives written entries for relational score summaries.
type SummaryQueue interface {
	Enqueue(ctx context.Context, testID string, entry model.ReportEntry) error
}

// Writer upserts graded entries into a test's report.
type Writer struct {
	store      Store
	enrollment Enrollment
	publisher  Publisher
	summaries  SummaryQueue
	log        zerolog.Logger
}

// Option configures optional Writer collaborators.
type Option func(*Writer)

func WithEnrollment(e Enrollment) Option     { return func(w *Writer) { w.enrollment = e } }
func WithPublisher(p Publisher) Option       { return func(w *Writer) { w.publisher = p } }
func WithSummaryQueue(q SummaryQueue) Option { return func(w *Writer) { w.summaries = q } }

// NewWriter creates a new Writer.
func NewWriter(store Store, log zerolog.Logger, opts ...Option) *Writer {
	w := &Writer{
		store: store,
		log:   log.With().Str("component", "report_writer").Logger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Upsert replaces the candidate's entry in place or appends it. Calling it
// again with the same entry leaves exactly one entry for that candidate.
func (w *Writer) Upsert(ctx context.Context, testID string, entry model.ReportEntry) error {
	err := w.store.UpdateReport(ctx, testID, func(current []model.ReportEntry) ([]model.ReportEntry, error) {
		return Merge(current, entry), nil
	})
	if err != nil {
		w.log.Error().Err(err).Str("test_id", testID).Str("email", entry.Email).Msg("Report write failed")
		return &WriteError{TestID: testID, Err: err}
	}

	w.log.Info().
		Str("test_id", testID).
		Str("email", entry.Email).
		Str("trigger", string(entry.Trigger)).
		Msg("Report entry written")

	w.afterWrite(ctx, EventSubmitted, testID, entry)
	return nil
}

// Delete removes a candidate's entry and their enrollment in the test.
func (w *Writer) Delete(ctx context.Context, testID, email string) error {
	var removed model.ReportEntry
	err := w.store.UpdateReport(ctx, testID, func(current []model.ReportEntry) ([]model.ReportEntry, error) {
		e := Find(current, email)
		if e == nil {
			return nil, ErrEntryNotFound
		}
		removed = *e
		next, _ := Remove(current, email)
		return next, nil
	})
	if errors.Is(err, ErrEntryNotFound) {
		return err
	}
	if err != nil {
		return &WriteError{TestID: testID, Err: err}
	}

	if w.enrollment != nil {
		if err := w.enrollment.Unenroll(ctx, email, testID); err != nil {
			return fmt.Errorf("unenroll candidate: %w", err)
		}
	}

	w.afterWrite(ctx, EventDeleted, testID, removed)
	return nil
}

func (w *Writer) afterWrite(ctx context.Context, kind, testID string, entry model.ReportEntry) {
	if w.publisher != nil {
		ev := Event{
			Type:   kind,
			TestID: testID,
			Entry:  entry,
			Totals: grading.Totals(entry.Questions),
			At:     time.Now().UTC(),
		}
		if err := w.publisher.Publish(ctx, ev); err != nil {
			w.log.Warn().Err(err).Str("test_id", testID).Str("event", kind).Msg("Report event not published")
		}
	}
	if kind == EventSubmitted && w.summaries != nil {
		if err := w.summaries.Enqueue(ctx, testID, entry); err != nil {
			w.log.Warn().Err(err).Str("test_id", testID).Msg("Score summary not queued")
		}
	}
}
