package preview

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/kk-code-lab/rpeek/internal/content"
	"github.com/kk-code-lab/rpeek/internal/filetype"
	"github.com/kk-code-lab/rpeek/internal/logging"
	"github.com/kk-code-lab/rpeek/internal/metrics"
	"github.com/kk-code-lab/rpeek/internal/model"
)

var errNoLoader = errors.New("no content loader configured")

// Session is the controller of one preview surface. Each content load is
// tagged with a token; only the load matching the current token may change
// the state, so results for a replaced or closed file are dropped.
type Session struct {
	loader Loader

	mu       sync.Mutex
	state    State
	token    int
	onChange func(State)
}

// NewSession creates a closed session that loads content through loader.
func NewSession(loader Loader) *Session {
	return &Session{loader: loader}
}

// SetOnChange registers fn to receive a snapshot after every transition.
// fn runs outside the session lock and may be called from loader goroutines,
// so snapshots from racing transitions can arrive out of order; use it as a
// wakeup and read State for the authoritative view.
func (s *Session) SetOnChange(fn func(State)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// Directive returns the render directive for the current state.
func (s *Session) Directive() Directive {
	return DirectiveFor(s.State())
}

// Current returns the file the session is showing, if any.
func (s *Session) Current() (model.FileRef, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status == StatusClosed {
		return model.FileRef{}, false
	}
	return s.state.Ref, true
}

// Open shows ref, replacing whatever the session displayed before. Embedded
// media is ready immediately; text and archives start a load.
func (s *Session) Open(ref model.FileRef) {
	s.mu.Lock()
	s.abandonLocked()

	s.state = State{Status: StatusIdle, Ref: ref}
	classification := filetype.Classify(ref.Name)
	strategy := filetype.StrategyFor(classification)
	s.state.Classification = classification
	s.state.Strategy = strategy

	metrics.RecordPreviewOpen(strategy.String())
	logging.Debug("preview open",
		zap.String("name", ref.Name),
		zap.String("category", classification.Category.String()),
		zap.String("strategy", strategy.String()),
	)

	if !strategy.NeedsFetch() {
		s.state.Status = StatusReady
		snapshot, notify := s.snapshotLocked()
		s.mu.Unlock()
		notify(snapshot)
		return
	}

	s.token++
	token := s.token
	s.state.Status = StatusLoading
	snapshot, notify := s.snapshotLocked()
	loader := s.loader
	s.mu.Unlock()

	notify(snapshot)

	if loader == nil {
		s.complete(LoadResult{Token: token, Ref: ref, Err: content.NetworkError(ref.URL, errNoLoader)})
		return
	}
	loader.Start(LoadRequest{
		Token:    token,
		Ref:      ref,
		Strategy: strategy,
		Callback: s.complete,
	})
}

// Close hides the preview and drops any content or pending load. Reopening
// the same file afterwards loads it again.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state.Status == StatusClosed {
		s.mu.Unlock()
		return
	}
	s.abandonLocked()
	s.state = State{Status: StatusClosed}
	snapshot, notify := s.snapshotLocked()
	s.mu.Unlock()

	logging.Debug("preview closed")
	notify(snapshot)
}

// abandonLocked invalidates the in-flight load, if any.
func (s *Session) abandonLocked() {
	if s.state.Status == StatusLoading && s.loader != nil {
		s.loader.Cancel(s.token)
	}
	s.token++
}

func (s *Session) complete(result LoadResult) {
	s.mu.Lock()
	if result.Token != s.token || s.state.Status != StatusLoading {
		s.mu.Unlock()
		metrics.RecordPreviewStale()
		logging.Debug("stale preview result discarded",
			zap.String("name", result.Ref.Name),
			zap.Int("token", result.Token),
		)
		return
	}

	strategy := s.state.Strategy
	metrics.RecordPreviewLoad(strategy.String(), result.Err, result.Elapsed)

	if result.Err != nil {
		s.state.Status = StatusError
		s.state.Err = result.Err
		s.state.ErrorMessage = UserMessage(strategy)
		logging.Warn("preview load failed",
			zap.String("name", s.state.Ref.Name),
			zap.Error(result.Err),
		)
	} else {
		s.state.Status = StatusReady
		s.state.Text = result.Text
		s.state.Entries = result.Entries
	}
	snapshot, notify := s.snapshotLocked()
	s.mu.Unlock()

	notify(snapshot)
}

func (s *Session) snapshotLocked() (State, func(State)) {
	fn := s.onChange
	if fn == nil {
		fn = func(State) {}
	}
	return cloneState(s.state), fn
}
