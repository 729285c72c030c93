// Package loader resolves the evaluation dataset for one render cycle and
// exposes it as a tri-state result: Loading, Error or Ready.
package loader

import (
	"context"
	"errors"
	"sync"

	"onepager/internal/report"
)

// ErrorMessage is the only text a user ever sees for a failed load.
const ErrorMessage = "Could not load evaluation data."

// ErrNetwork marks a non-2xx response or a transport failure.
var ErrNetwork = errors.New("evaluation data request failed")

// State is the observable load state.
type State int

const (
	Loading State = iota
	Error
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Error:
		return "error"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Result is a snapshot of a load. Err carries the internal cause for logs;
// it must not be shown to users, Message is.
type Result struct {
	State   State
	Message string
	Report  *report.EvaluationReport
	Err     error
}

// Source produces one dataset.
type Source interface {
	Fetch(ctx context.Context) (*report.EvaluationReport, error)
}

// StaticSource serves a compiled-in dataset.
type StaticSource struct {
	Report *report.EvaluationReport
}

// NewStaticSource returns a source for the embedded sample dataset.
func NewStaticSource() *StaticSource {
	return &StaticSource{Report: report.Sample()}
}

// Fetch always succeeds.
func (s *StaticSource) Fetch(ctx context.Context) (*report.EvaluationReport, error) {
	return s.Report, nil
}

// Session is one mount of the loader: it fetches at most once, and the
// first resolution is final. The result is assigned exactly once, before
// Done is closed.
type Session struct {
	source Source
	once   sync.Once
	done   chan struct{}
	result Result
}

// NewSession creates a session in the Loading state.
func NewSession(source Source) *Session {
	return &Session{
		source: source,
		done:   make(chan struct{}),
	}
}

// Start begins the fetch in the background. Further calls are no-ops.
func (s *Session) Start(ctx context.Context) {
	s.once.Do(func() {
		go s.resolve(ctx)
	})
}

// Load starts the fetch if needed and waits for it to resolve. If ctx ends
// first, Load returns the current snapshot; the fetch still resolves the
// session under the context it was started with.
func (s *Session) Load(ctx context.Context) Result {
	s.Start(ctx)
	select {
	case <-s.done:
		return s.result
	case <-ctx.Done():
		return s.Snapshot()
	}
}

// Snapshot returns the current state without blocking.
func (s *Session) Snapshot() Result {
	select {
	case <-s.done:
		return s.result
	default:
		return Result{State: Loading}
	}
}

// Done is closed once the session has resolved.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) resolve(ctx context.Context) {
	defer close(s.done)

	r, err := s.source.Fetch(ctx)
	switch {
	case err != nil:
		s.result = Result{State: Error, Message: ErrorMessage, Err: err}
	case r == nil:
		s.result = Result{State: Error, Message: ErrorMessage, Err: errors.New("source returned no report")}
	default:
		s.result = Result{State: Ready, Report: r}
	}
}
