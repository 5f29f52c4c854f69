package selection

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nao1215/reportscope/internal/model"
)

// DetailLoader loads a resolved scan by id.
type DetailLoader interface {
	Load(ctx context.Context, scanID string) (*model.Scan, error)
}

// Session drives the selection machine for one interactive user.
// It is safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	state    State
	cancel   context.CancelFunc
	onChange func(State)

	ctx    context.Context
	loader DetailLoader
	logger *slog.Logger
	wg     sync.WaitGroup
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithOnChange registers fn to be called after every state change.
// fn runs with the session lock held and must not call back into the session.
func WithOnChange(fn func(State)) SessionOption {
	return func(s *Session) {
		s.onChange = fn
	}
}

// WithSessionLogger sets the logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSession returns a session that loads details with loader.
// Loads are canceled when ctx is done.
func NewSession(ctx context.Context, loader DetailLoader, opts ...SessionOption) *Session {
	s := &Session{
		ctx:    ctx,
		loader: loader,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SelectProject selects p. See SelectProject for the transition rules.
func (s *Session) SelectProject(p model.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := SelectProject(s.state, p)
	if next.Generation == s.state.Generation {
		return
	}
	s.cancelInFlight()
	s.setState(next)
}

// ClearProject returns to the initial phase.
func (s *Session) ClearProject() {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := ClearProject(s.state)
	if next.Generation == s.state.Generation {
		return
	}
	s.cancelInFlight()
	s.setState(next)
}

// SelectScan selects a scan of the current project and starts loading its
// detail in the background. It returns without waiting for the load.
func (s *Session) SelectScan(scanID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, request, err := SelectScan(s.state, scanID)
	if err != nil {
		return err
	}
	if request == nil {
		return nil
	}

	s.cancelInFlight()
	s.setState(next)

	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel
	s.wg.Add(1)
	go s.load(ctx, cancel, *request)
	return nil
}

// Wait blocks until every started load has finished and been applied.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close cancels the outstanding load and waits for it to finish.
func (s *Session) Close() {
	s.mu.Lock()
	s.cancelInFlight()
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Session) load(ctx context.Context, cancel context.CancelFunc, request LoadRequest) {
	defer s.wg.Done()
	defer cancel()

	scan, err := s.loader.Load(ctx, request.ScanID)

	s.mu.Lock()
	defer s.mu.Unlock()

	next, applied := ApplyDetail(s.state, LoadResult{
		ScanID:     request.ScanID,
		Generation: request.Generation,
		Scan:       scan,
		Err:        err,
	})
	if !applied {
		s.logger.Debug("discarding superseded scan detail",
			"scan_id", request.ScanID, "generation", request.Generation)
		return
	}
	if err != nil {
		s.logger.Debug("scan detail load failed", "scan_id", request.ScanID, "error", err)
	}
	s.setState(next)
}

// cancelInFlight cancels the context of the outstanding load. Its result, if
// it still arrives, is rejected by the generation check. Callers hold s.mu.
func (s *Session) cancelInFlight() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// setState stores next and notifies the listener. Callers hold s.mu.
func (s *Session) setState(next State) {
	s.state = next
	if s.onChange != nil {
		s.onChange(next)
	}
}
