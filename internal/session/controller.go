// Package session drives one candidate's attempt at one test: the countdown,
// drafts, feedback runs, the integrity monitor and the final submission.
//
// The controller owns all mutable attempt state. Collaborators are injected
// through Deps so the state machine can be exercised without a judge, a
// database or a websocket.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/grading"
	"github.com/stemsi/codetest-backend/internal/integrity"
	"github.com/stemsi/codetest-backend/internal/judge"
	"github.com/stemsi/codetest-backend/internal/model"
	"github.com/stemsi/codetest-backend/internal/report"
)

//go:generate mockgen -destination=mocks/mock_session.go -package=mocks . Judge,Loader,ReportWriter,Authorizer,IntegrityRecorder

// Judge executes source code against one input.
type Judge interface {
	Execute(ctx context.Context, req judge.Request) (*judge.Verdict, error)
}

// Loader resolves a test and its question references.
type Loader interface {
	LoadTest(ctx context.Context, testID string) (*model.Test, error)
	LoadQuestion(ctx context.Context, questionID string) (*model.Question, error)
}

// ReportWriter persists a graded entry.
type ReportWriter interface {
	Upsert(ctx context.Context, testID string, entry model.ReportEntry) error
}

// Authorizer decides whether the candidate may attempt the test.
type Authorizer interface {
	Authorize(ctx context.Context, email string, test *model.Test) error
}

// IntegrityRecorder keeps an audit trail of attention events.
type IntegrityRecorder interface {
	Record(ctx context.Context, ev model.IntegrityEvent) error
}

// Fallback parks a graded entry the report store would not take, so it can
// be written later by a worker.
type Fallback interface {
	Stash(ctx context.Context, testID string, entry model.ReportEntry) error
}

const (
	defaultWriteRetries    = 5
	defaultWriteRetryDelay = 2 * time.Second
	stashTimeout           = 5 * time.Second
)

// Deps are the controller's collaborators. Judge, Loader and Writer are required.
type Deps struct {
	Judge      Judge
	Loader     Loader
	Writer     ReportWriter
	Authorizer Authorizer
	Recorder   IntegrityRecorder
	Sink       EventSink
	Clock      Clock
	Attention  integrity.AttentionSource
	Fallback   Fallback
	// WriteRetries and WriteRetryDelay bound the background writes after a
	// forced submission fails to persist. The delay doubles each attempt.
	WriteRetries    int
	WriteRetryDelay time.Duration
	// DefaultLanguage is used for drafts saved without a language.
	DefaultLanguage judge.Language
	Log             zerolog.Logger
}

// Draft is the candidate's working copy of one answer.
type Draft struct {
	Code           string
	Language       judge.Language
	CustomInput    string
	UseCustomInput bool
}

// QuestionState is one question as the candidate sees it.
type QuestionState struct {
	model.QuestionForCandidate
	Code           string                `json:"code"`
	Language       string                `json:"language"`
	CustomInput    string                `json:"custom_input"`
	UseCustomInput bool                  `json:"use_custom_input"`
	LastRun        *grading.Summary      `json:"last_run,omitempty"`
	Preview        *model.QuestionResult `json:"preview,omitempty"`
	Busy           bool                  `json:"busy"`
}

// State is a point-in-time copy of the session.
type State struct {
	TestID         string              `json:"test_id"`
	TestName       string              `json:"test_name"`
	Email          string              `json:"email"`
	Phase          Phase               `json:"phase"`
	Remaining      int                 `json:"remaining"`
	Violations     int                 `json:"violations"`
	Threshold      int                 `json:"threshold"`
	ConfirmPending bool                `json:"confirm_pending"`
	Trigger        model.SubmitTrigger `json:"trigger,omitempty"`
	Questions      []QuestionState     `json:"questions"`
	Entry          *model.ReportEntry  `json:"entry,omitempty"`
	Totals         *grading.Total      `json:"totals,omitempty"`
	Error          string              `json:"error,omitempty"`
}

// Controller is the state machine for one attempt.
type Controller struct {
	testID string
	email  string
	deps   Deps
	log    zerolog.Logger

	monitor *integrity.Monitor

	sinkMu sync.RWMutex
	sink   EventSink

	mu             sync.Mutex
	phase          Phase
	test           *model.Test
	questions      []*model.Question
	index          map[string]int
	remaining      int
	drafts         map[string]Draft
	runs           map[string]*grading.Summary
	previews       map[string]*model.QuestionResult
	busy           map[string]bool
	idle           *sync.Cond
	confirmPending bool
	trigger        model.SubmitTrigger
	entry          *model.ReportEntry
	lastErr        error
	stashed        bool
	cancel         context.CancelFunc

	wg        sync.WaitGroup
	done      chan struct{}
	doneOnce  sync.Once
	closed    chan struct{}
	closeOnce sync.Once
}

// New creates a controller in LOADING.
func New(testID, email string, deps Deps) *Controller {
	if deps.Clock == nil {
		deps.Clock = RealClock()
	}
	if !deps.DefaultLanguage.Valid() {
		deps.DefaultLanguage = judge.LanguagePython
	}
	if deps.WriteRetries <= 0 {
		deps.WriteRetries = defaultWriteRetries
	}
	if deps.WriteRetryDelay <= 0 {
		deps.WriteRetryDelay = defaultWriteRetryDelay
	}
	sink := deps.Sink
	if sink == nil {
		sink = discardSink{}
	}
	c := &Controller{
		testID:   testID,
		email:    email,
		deps:     deps,
		log:      deps.Log.With().Str("component", "session").Str("test_id", testID).Str("email", email).Logger(),
		monitor:  integrity.NewMonitor(),
		sink:     sink,
		phase:    PhaseLoading,
		index:    make(map[string]int),
		drafts:   make(map[string]Draft),
		runs:     make(map[string]*grading.Summary),
		previews: make(map[string]*model.QuestionResult),
		busy:     make(map[string]bool),
		done:     make(chan struct{}),
		closed:   make(chan struct{}),
	}
	c.idle = sync.NewCond(&c.mu)
	return c
}

// TestID returns the test this controller belongs to.
func (c *Controller) TestID() string { return c.testID }

// Email returns the candidate identity.
func (c *Controller) Email() string { return c.email }

// Done is closed once the entry has been written or handed to the fallback.
func (c *Controller) Done() <-chan struct{} { return c.done }

// SetSink replaces the event sink, e.g. when a client reconnects.
func (c *Controller) SetSink(s EventSink) {
	if s == nil {
		s = discardSink{}
	}
	c.sinkMu.Lock()
	c.sink = s
	c.sinkMu.Unlock()
}

func (c *Controller) emit(t EventType, data interface{}) {
	c.sinkMu.RLock()
	s := c.sink
	c.sinkMu.RUnlock()
	s.Emit(Event{Type: t, TestID: c.testID, Email: c.email, Data: data})
}

func (c *Controller) emitPhase(p Phase, trigger model.SubmitTrigger) {
	c.emit(EventPhase, PhaseData{Phase: p, Trigger: trigger})
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Remaining returns the seconds left on the countdown.
func (c *Controller) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Result returns the graded entry, or nil before grading has finished.
func (c *Controller) Result() *model.ReportEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entry == nil {
		return nil
	}
	e := *c.entry
	return &e
}

// Err returns the last failure the controller recorded.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// ─── Loading ────────────────────────────────────────────────────────────────

// Load resolves the test and its questions and moves to ACTIVE. Questions
// that cannot be resolved are left out; any other failure moves to ERROR.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != PhaseLoading {
		c.mu.Unlock()
		return ErrNotLoading
	}
	c.mu.Unlock()

	test, err := c.deps.Loader.LoadTest(ctx, c.testID)
	if err != nil {
		return c.fail(fmt.Errorf("load test: %w", err))
	}

	if c.deps.Authorizer != nil {
		if err := c.deps.Authorizer.Authorize(ctx, c.email, test); err != nil {
			return c.fail(err)
		}
	}

	questions := make([]*model.Question, 0, len(test.QuestionIDs))
	for _, qid := range test.QuestionIDs {
		q, err := c.deps.Loader.LoadQuestion(ctx, qid)
		if err != nil {
			c.log.Warn().
				Err(fmt.Errorf("%w: %s: %v", ErrQuestionResolution, qid, err)).
				Msg("Question dropped from session")
			continue
		}
		questions = append(questions, q)
	}

	c.mu.Lock()
	c.test = test
	c.questions = questions
	for i, q := range questions {
		c.index[q.ID] = i
		c.drafts[q.ID] = Draft{Language: c.deps.DefaultLanguage}
	}
	c.remaining = test.DurationSeconds()
	c.phase = PhaseActive
	c.mu.Unlock()

	c.log.Info().Int("questions", len(questions)).Int("duration_seconds", test.DurationSeconds()).Msg("Session loaded")
	c.emitPhase(PhaseActive, "")
	return nil
}

func (c *Controller) fail(err error) error {
	c.mu.Lock()
	c.phase = PhaseError
	c.lastErr = err
	c.mu.Unlock()

	c.log.Error().Err(err).Msg("Session failed to load")
	c.emit(EventSubmitError, SubmitErrorData{Stage: "load", Message: err.Error()})
	c.emitPhase(PhaseError, "")
	return err
}

// ─── Countdown and integrity ────────────────────────────────────────────────

// Start begins the 1 Hz countdown and, when an attention source is set, the
// integrity watch. Both stop on DONE, on Close, or when ctx is cancelled.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.phase != PhaseActive || c.cancel != nil {
		c.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	ticker := c.deps.Clock.NewTicker(time.Second)
	c.mu.Unlock()

	c.wg.Add(1)
	go c.runTimer(runCtx, ticker)

	if c.deps.Attention != nil {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.monitor.Watch(runCtx, c.deps.Attention, func(ev integrity.Event, sig integrity.Signal) {
				c.onAttention(runCtx, ev, sig)
			})
		}()
	}
}

func (c *Controller) runTimer(ctx context.Context, t Ticker) {
	defer c.wg.Done()
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			if !c.tick(ctx) {
				return
			}
		}
	}
}

// tick decrements the countdown. It returns false once the timer is no
// longer needed.
func (c *Controller) tick(ctx context.Context) bool {
	c.mu.Lock()
	switch c.phase {
	case PhaseActive, PhaseSubmitting:
	default:
		c.mu.Unlock()
		return false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	remaining := c.remaining
	expired := remaining == 0 && c.phase == PhaseActive
	c.mu.Unlock()

	c.emit(EventTick, TickData{Remaining: remaining})
	if expired {
		c.log.Info().Msg("Time is up")
		_ = c.submit(ctx, model.TriggerTimeout)
	}
	return true
}

func (c *Controller) onAttention(ctx context.Context, ev integrity.Event, sig integrity.Signal) {
	if c.deps.Recorder != nil {
		rec := model.IntegrityEvent{
			TestID:     c.testID,
			Email:      c.email,
			Kind:       string(ev.Kind),
			Count:      sig.Count,
			RecordedAt: c.deps.Clock.Now().Unix(),
		}
		if err := c.deps.Recorder.Record(ctx, rec); err != nil {
			c.log.Warn().Err(err).Msg("Integrity event not recorded")
		}
	}

	switch sig.Kind {
	case integrity.SignalWarning:
		c.emit(EventWarning, WarningData{Count: sig.Count, Threshold: sig.Threshold})
	case integrity.SignalNavigationSuppressed:
		c.emit(EventNavigationSuppressed, WarningData{Count: sig.Count, Threshold: sig.Threshold})
	case integrity.SignalForceSubmit:
		c.log.Warn().Int("count", sig.Count).Msg("Integrity threshold reached")
		c.emit(EventWarning, WarningData{Count: sig.Count, Threshold: sig.Threshold})
		_ = c.submit(ctx, model.TriggerIntegrity)
	}
}

// ReportAttention feeds an event straight into the monitor. It is used when
// no AttentionSource is wired.
func (c *Controller) ReportAttention(ctx context.Context, kind integrity.EventKind) {
	ev := integrity.Event{Kind: kind, At: c.deps.Clock.Now()}
	if sig := c.monitor.Handle(ev); sig.Kind != integrity.SignalNone {
		c.onAttention(ctx, ev, sig)
	}
}

// ─── Drafts and feedback ────────────────────────────────────────────────────

// SaveDraft stores the candidate's code for a question. An empty language
// keeps the draft's current one.
func (c *Controller) SaveDraft(questionID, code, language, customInput string, useCustomInput bool) error {
	var lang judge.Language
	if strings.TrimSpace(language) != "" {
		l, err := judge.ParseLanguage(language)
		if err != nil {
			return err
		}
		lang = l
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseActive {
		return ErrNotActive
	}
	d, ok := c.drafts[questionID]
	if !ok {
		return ErrUnknownQuestion
	}
	d.Code = code
	if lang != 0 {
		d.Language = lang
	}
	d.CustomInput = customInput
	d.UseCustomInput = useCustomInput
	c.drafts[questionID] = d
	return nil
}

// acquire marks the question busy and returns it with its current draft.
func (c *Controller) acquire(questionID string) (*model.Question, Draft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseActive {
		return nil, Draft{}, ErrNotActive
	}
	i, ok := c.index[questionID]
	if !ok {
		return nil, Draft{}, ErrUnknownQuestion
	}
	if c.busy[questionID] {
		return nil, Draft{}, ErrQuestionBusy
	}
	c.busy[questionID] = true
	return c.questions[i], c.drafts[questionID], nil
}

func (c *Controller) release(questionID string) {
	c.mu.Lock()
	delete(c.busy, questionID)
	c.idle.Broadcast()
	c.mu.Unlock()
}

// Run executes the draft against the custom input or the sample cases. The
// result is for display only.
func (c *Controller) Run(ctx context.Context, questionID string) (*grading.Summary, error) {
	q, d, err := c.acquire(questionID)
	if err != nil {
		return nil, err
	}
	defer c.release(questionID)

	if strings.TrimSpace(d.Code) == "" {
		return nil, ErrEmptySource
	}

	var pairs []grading.CaseVerdict
	if d.UseCustomInput {
		v, err := c.deps.Judge.Execute(ctx, judge.Request{
			SourceCode: d.Code,
			Language:   d.Language,
			Stdin:      d.CustomInput,
		})
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, grading.CaseVerdict{Case: model.TestCase{Name: "custom", Input: d.CustomInput}, Verdict: v})
	} else {
		cases := grading.SampleCases(q)
		verdicts, err := c.executeCases(ctx, d, cases)
		if err != nil {
			return nil, err
		}
		for i, tc := range cases {
			pairs = append(pairs, grading.CaseVerdict{Case: tc, Verdict: verdicts[i]})
		}
	}

	summary := grading.RunSummary(pairs)
	c.mu.Lock()
	if c.phase != PhaseActive {
		c.mu.Unlock()
		return nil, ErrNotActive
	}
	c.runs[questionID] = &summary
	c.mu.Unlock()

	c.emit(EventRunResult, RunResultData{QuestionID: questionID, Summary: summary})
	return &summary, nil
}

// SubmitQuestion grades one question against all its cases. The result is a
// preview; it is never written to the report.
func (c *Controller) SubmitQuestion(ctx context.Context, questionID string) (*model.QuestionResult, error) {
	q, d, err := c.acquire(questionID)
	if err != nil {
		return nil, err
	}
	defer c.release(questionID)

	var res model.QuestionResult
	if strings.TrimSpace(d.Code) == "" {
		res = grading.ZeroResult(q)
	} else {
		verdicts, err := c.executeCases(ctx, d, q.TestCases)
		if err != nil {
			return nil, err
		}
		res = grading.ScoreQuestion(q, verdicts)
	}

	c.mu.Lock()
	if c.phase != PhaseActive {
		c.mu.Unlock()
		return nil, ErrNotActive
	}
	c.previews[questionID] = &res
	c.mu.Unlock()

	c.emit(EventQuestionResult, QuestionResultData{QuestionID: questionID, Result: res, Preview: true})
	return &res, nil
}

func (c *Controller) executeCases(ctx context.Context, d Draft, cases []model.TestCase) ([]*judge.Verdict, error) {
	verdicts := make([]*judge.Verdict, 0, len(cases))
	for _, tc := range cases {
		expected := tc.ExpectedOutput
		v, err := c.deps.Judge.Execute(ctx, judge.Request{
			SourceCode:     d.Code,
			Language:       d.Language,
			Stdin:          tc.Input,
			ExpectedOutput: &expected,
			TimeLimit:      tc.CPUTimeLimit(),
		})
		if err != nil {
			return nil, err
		}
		verdicts = append(verdicts, v)
	}
	return verdicts, nil
}

// ─── Submission ─────────────────────────────────────────────────────────────

// RequestSubmit starts a submission. A manual request only arms the
// confirmation step; forced triggers submit immediately. Outside ACTIVE the
// call does nothing.
func (c *Controller) RequestSubmit(ctx context.Context, trigger model.SubmitTrigger) error {
	if trigger.Forced() {
		return c.submit(ctx, trigger)
	}

	c.mu.Lock()
	if c.phase != PhaseActive {
		c.mu.Unlock()
		return nil
	}
	c.confirmPending = true
	c.mu.Unlock()

	c.emit(EventConfirmRequired, nil)
	return nil
}

// ConfirmSubmit completes a manual request.
func (c *Controller) ConfirmSubmit(ctx context.Context) error {
	c.mu.Lock()
	if !c.confirmPending || c.phase != PhaseActive {
		c.confirmPending = false
		c.mu.Unlock()
		return ErrNoPendingConfirmation
	}
	c.confirmPending = false
	c.mu.Unlock()

	return c.submit(ctx, model.TriggerManual)
}

// CancelSubmit disarms a pending manual request.
func (c *Controller) CancelSubmit() {
	c.mu.Lock()
	c.confirmPending = false
	c.mu.Unlock()
}

// submit grades every question and writes the entry. Only one submission can
// be in flight; later triggers are ignored. Grading starts once every
// feedback run in flight has returned.
func (c *Controller) submit(ctx context.Context, trigger model.SubmitTrigger) error {
	c.mu.Lock()
	if c.phase != PhaseActive {
		phase := c.phase
		c.mu.Unlock()
		c.log.Debug().Str("trigger", string(trigger)).Str("phase", string(phase)).Msg("Submission ignored")
		return nil
	}
	c.phase = PhaseSubmitting
	c.trigger = trigger
	c.confirmPending = false
	c.mu.Unlock()

	c.log.Info().Str("trigger", string(trigger)).Msg("Submitting attempt")
	c.emitPhase(PhaseSubmitting, trigger)

	c.mu.Lock()
	for len(c.busy) > 0 {
		c.idle.Wait()
	}
	questions := c.questions
	drafts := make(map[string]Draft, len(c.drafts))
	for k, v := range c.drafts {
		drafts[k] = v
	}
	c.mu.Unlock()

	// A started submission outlives the connection that triggered it.
	ctx = context.WithoutCancel(ctx)

	results, err := c.grade(ctx, questions, drafts, trigger.Forced())
	if err != nil {
		return c.abort(ctx, err)
	}

	c.mu.Lock()
	entry := model.ReportEntry{
		Email:       c.email,
		Duration:    formatElapsed(c.test.DurationSeconds() - c.remaining),
		Questions:   results,
		Trigger:     trigger,
		Violations:  c.monitor.Count(),
		SubmittedAt: c.deps.Clock.Now().UTC(),
	}
	c.entry = &entry
	c.mu.Unlock()

	if err := c.write(ctx); err != nil {
		if trigger.Forced() {
			c.retryInBackground()
		}
		return err
	}
	return nil
}

// abort returns a failed voluntary submission to ACTIVE. If the deadline or
// the integrity threshold passed meanwhile, a forced submission follows.
func (c *Controller) abort(ctx context.Context, err error) error {
	c.mu.Lock()
	c.phase = PhaseActive
	c.lastErr = err
	expired := c.remaining <= 0
	c.mu.Unlock()

	c.log.Warn().Err(err).Msg("Submission aborted")
	c.emit(EventSubmitError, SubmitErrorData{Stage: "grade", Message: err.Error(), Retryable: true})
	c.emitPhase(PhaseActive, "")

	switch {
	case expired:
		return c.submit(ctx, model.TriggerTimeout)
	case c.monitor.Escalated():
		return c.submit(ctx, model.TriggerIntegrity)
	}
	return err
}

// grade walks questions in order. A voluntary pass stops at the first
// execution failure; a forced pass zero-scores what is left instead.
func (c *Controller) grade(ctx context.Context, questions []*model.Question, drafts map[string]Draft, forced bool) ([]model.QuestionResult, error) {
	results := make([]model.QuestionResult, 0, len(questions))
	for i, q := range questions {
		d := drafts[q.ID]
		if strings.TrimSpace(d.Code) == "" {
			results = append(results, grading.ZeroResult(q))
			continue
		}

		verdicts, err := c.executeCases(ctx, d, q.TestCases)
		if err != nil {
			if !forced {
				return nil, err
			}
			c.log.Warn().Err(err).Str("question", q.Name).Int("zeroed", len(questions)-i).Msg("Judge failed during forced submission")
			for _, rest := range questions[i:] {
				results = append(results, grading.ZeroResult(rest))
			}
			return results, nil
		}
		results = append(results, grading.ScoreQuestion(q, verdicts))
	}
	return results, nil
}

func (c *Controller) write(ctx context.Context) error {
	c.mu.Lock()
	entry := *c.entry
	c.mu.Unlock()

	if err := c.deps.Writer.Upsert(ctx, c.testID, entry); err != nil {
		if !errors.Is(err, report.ErrWriteUnavailable) {
			err = &report.WriteError{TestID: c.testID, Err: err}
		}
		c.mu.Lock()
		c.phase = PhaseError
		c.lastErr = err
		c.mu.Unlock()

		c.emit(EventSubmitError, SubmitErrorData{Stage: "write", Message: err.Error(), Retryable: true})
		c.emitPhase(PhaseError, entry.Trigger)
		return err
	}

	c.mu.Lock()
	c.phase = PhaseDone
	c.lastErr = nil
	c.mu.Unlock()

	c.teardown()
	c.doneOnce.Do(func() { close(c.done) })

	c.log.Info().Str("trigger", string(entry.Trigger)).Msg("Attempt submitted")
	c.emitPhase(PhaseDone, entry.Trigger)
	c.emit(EventResults, ResultsData{Entry: entry, Totals: grading.Totals(entry.Questions)})
	return nil
}

// Retry writes the already graded entry again after a write failure.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != PhaseError || c.entry == nil || c.stashed {
		c.mu.Unlock()
		return ErrNothingToRetry
	}
	c.phase = PhaseSubmitting
	trigger := c.entry.Trigger
	c.mu.Unlock()

	c.emitPhase(PhaseSubmitting, trigger)
	return c.write(context.WithoutCancel(ctx))
}

// retryInBackground keeps writing a forced entry nobody is waiting on. When
// the retries run out the entry goes to the fallback.
func (c *Controller) retryInBackground() {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		delay := c.deps.WriteRetryDelay
		for attempt := 1; attempt <= c.deps.WriteRetries; attempt++ {
			select {
			case <-c.closed:
				return
			case <-time.After(delay):
			}
			err := c.Retry(context.Background())
			if err == nil || errors.Is(err, ErrNothingToRetry) {
				return
			}
			c.log.Warn().Err(err).Int("attempt", attempt).Msg("Entry write retry failed")
			delay *= 2
		}
		c.stash()
	}()
}

// stash hands an unwritten entry to the fallback. Only an ERROR session with
// a graded entry has anything to hand over.
func (c *Controller) stash() {
	c.mu.Lock()
	if c.phase != PhaseError || c.entry == nil || c.stashed {
		c.mu.Unlock()
		return
	}
	c.stashed = true
	entry := *c.entry
	c.mu.Unlock()

	log := c.log.With().Str("trigger", string(entry.Trigger)).Logger()
	if c.deps.Fallback == nil {
		log.Error().Interface("entry", entry).Msg("CRITICAL: Graded entry not written and no fallback configured")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stashTimeout)
	defer cancel()
	if err := c.deps.Fallback.Stash(ctx, c.testID, entry); err != nil {
		c.mu.Lock()
		c.stashed = false
		c.mu.Unlock()
		log.Error().Err(err).Interface("entry", entry).Msg("CRITICAL: Graded entry could not be stashed")
		return
	}

	log.Warn().Msg("Graded entry handed to fallback queue")
	c.doneOnce.Do(func() { close(c.done) })
}

// ─── Teardown and snapshots ─────────────────────────────────────────────────

func (c *Controller) teardown() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Close stops the controller's goroutines and waits for them. A submission
// already running completes first. An entry that is still unwritten goes to
// the fallback.
func (c *Controller) Close() {
	c.closeOnce.Do(func() { close(c.closed) })
	c.teardown()
	c.wg.Wait()
	c.stash()
}

// Snapshot copies the session state for display.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := State{
		TestID:         c.testID,
		Email:          c.email,
		Phase:          c.phase,
		Remaining:      c.remaining,
		Violations:     c.monitor.Count(),
		Threshold:      integrity.DefaultThreshold,
		ConfirmPending: c.confirmPending,
		Trigger:        c.trigger,
		Questions:      make([]QuestionState, 0, len(c.questions)),
	}
	if c.test != nil {
		st.TestName = c.test.Name
	}
	if c.lastErr != nil {
		st.Error = c.lastErr.Error()
	}
	for _, q := range c.questions {
		d := c.drafts[q.ID]
		qs := QuestionState{
			QuestionForCandidate: q.ForCandidate(),
			Code:                 d.Code,
			Language:             d.Language.String(),
			CustomInput:          d.CustomInput,
			UseCustomInput:       d.UseCustomInput,
			LastRun:              c.runs[q.ID],
			Preview:              c.previews[q.ID],
			Busy:                 c.busy[q.ID],
		}
		st.Questions = append(st.Questions, qs)
	}
	if c.entry != nil {
		e := *c.entry
		totals := grading.Totals(e.Questions)
		st.Entry = &e
		st.Totals = &totals
	}
	return st
}

// formatElapsed renders seconds as hh:mm:ss.
func formatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds%3600/60, seconds%60)
}
