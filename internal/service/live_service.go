package service

import (
	"context"
	"strings"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/integrity"
	"github.com/stemsi/codetest-backend/internal/judge"
	"github.com/stemsi/codetest-backend/internal/session"
)

// LiveDeps are the collaborators every live session shares.
type LiveDeps struct {
	Judge      session.Judge
	Loader     session.Loader
	Writer     session.ReportWriter
	Authorizer session.Authorizer
	Recorder   session.IntegrityRecorder
	// Fallback parks graded entries that could not be written.
	Fallback session.Fallback
	// Enroller records the candidate's enrollment once a session loads.
	Enroller CandidateStore
	// Monitor receives every session event for the admin live view.
	Monitor         session.EventSink
	Clock           session.Clock
	DefaultLanguage judge.Language
}

// LiveSession is a running controller with its attention feed.
type LiveSession struct {
	Controller *session.Controller
	Attention  *integrity.ChannelSource

	boot    sync.Once
	bootErr error
}

// LiveService keeps one controller per candidate and test. A session outlives
// its websocket: the countdown keeps running while the candidate reconnects,
// and the session leaves the registry once its entry is written.
type LiveService struct {
	deps     LiveDeps
	sessions *xsync.MapOf[string, *LiveSession]
	ctx      context.Context
	cancel   context.CancelFunc
	root     zerolog.Logger
	log      zerolog.Logger
}

// NewLiveService creates a new LiveService.
func NewLiveService(deps LiveDeps, log zerolog.Logger) *LiveService {
	ctx, cancel := context.WithCancel(context.Background())
	return &LiveService{
		deps:     deps,
		sessions: xsync.NewMapOf[string, *LiveSession](),
		ctx:      ctx,
		cancel:   cancel,
		root:     log,
		log:      log.With().Str("component", "live_service").Logger(),
	}
}

func liveKey(testID, email string) string {
	return testID + "|" + strings.ToLower(email)
}

// Attach returns the candidate's live session, creating and loading it on
// first use. sink receives events until Detach.
func (s *LiveService) Attach(ctx context.Context, testID, email string, sink session.EventSink) (*LiveSession, error) {
	key := liveKey(testID, email)
	ls, _ := s.sessions.LoadOrCompute(key, func() *LiveSession {
		src := integrity.NewChannelSource(16)
		return &LiveSession{
			Attention: src,
			Controller: session.New(testID, strings.ToLower(email), session.Deps{
				Judge:           s.deps.Judge,
				Loader:          s.deps.Loader,
				Writer:          s.deps.Writer,
				Authorizer:      s.deps.Authorizer,
				Recorder:        s.deps.Recorder,
				Sink:            s.deps.Monitor,
				Clock:           s.deps.Clock,
				Attention:       src,
				Fallback:        s.deps.Fallback,
				DefaultLanguage: s.deps.DefaultLanguage,
				Log:             s.root,
			}),
		}
	})

	ls.boot.Do(func() { ls.bootErr = s.boot(ctx, key, ls) })
	if ls.bootErr != nil {
		return nil, ls.bootErr
	}

	ls.Controller.SetSink(session.MultiSink{s.deps.Monitor, sink})
	return ls, nil
}

func (s *LiveService) boot(ctx context.Context, key string, ls *LiveSession) error {
	if err := ls.Controller.Load(ctx); err != nil {
		s.remove(key, ls)
		return err
	}

	c := ls.Controller
	if s.deps.Enroller != nil {
		if err := s.deps.Enroller.Enroll(ctx, c.Email(), c.TestID()); err != nil {
			s.log.Warn().Err(err).Str("test_id", c.TestID()).Str("email", c.Email()).Msg("Enrollment not recorded")
		}
	}

	c.Start(s.ctx)
	go s.reap(key, ls)

	s.log.Info().Str("test_id", c.TestID()).Str("email", c.Email()).Msg("Live session started")
	return nil
}

// reap drops the session once its entry is written or the service stops.
func (s *LiveService) reap(key string, ls *LiveSession) {
	select {
	case <-ls.Controller.Done():
	case <-s.ctx.Done():
	}
	s.remove(key, ls)
}

func (s *LiveService) remove(key string, ls *LiveSession) {
	s.sessions.Compute(key, func(old *LiveSession, loaded bool) (*LiveSession, bool) {
		if !loaded || old != ls {
			return old, !loaded
		}
		return nil, true
	})
	ls.Attention.Close()
	go ls.Controller.Close()
}

// Detach stops forwarding events to the candidate's connection.
func (s *LiveService) Detach(ls *LiveSession) {
	ls.Controller.SetSink(s.deps.Monitor)
}

// Snapshots returns the state of every live session of a test.
func (s *LiveService) Snapshots(testID string) []session.State {
	var out []session.State
	s.sessions.Range(func(_ string, ls *LiveSession) bool {
		if ls.Controller.TestID() == testID {
			out = append(out, ls.Controller.Snapshot())
		}
		return true
	})
	return out
}

// PhaseCounts tallies live sessions by phase.
func (s *LiveService) PhaseCounts() map[session.Phase]int {
	counts := make(map[session.Phase]int)
	s.sessions.Range(func(_ string, ls *LiveSession) bool {
		counts[ls.Controller.Phase()]++
		return true
	})
	return counts
}

// Count returns the number of live sessions.
func (s *LiveService) Count() int {
	return s.sessions.Size()
}

// Shutdown stops every countdown and waits for running submissions. Graded
// entries still unwritten are handed to the fallback as their sessions close.
func (s *LiveService) Shutdown() {
	// Reaping starts once ctx is cancelled, so collect the sessions first.
	var live []*LiveSession
	s.sessions.Range(func(_ string, ls *LiveSession) bool {
		live = append(live, ls)
		return true
	})
	s.cancel()

	unwritten := 0
	for _, ls := range live {
		if ls.Controller.Phase() == session.PhaseError && ls.Controller.Result() != nil {
			unwritten++
		}
		ls.Controller.Close()
	}
	s.log.Info().Int("sessions", len(live)).Int("unwritten", unwritten).Msg("Live sessions stopped")
}
