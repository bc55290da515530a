// Package typing implements the typing test session state machine.
package typing

import (
	"errors"
	"time"

	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/scoring"
)

var (
	// ErrNotIdle is returned when starting a session that already started.
	ErrNotIdle = errors.New("session is not idle")
	// ErrNotRunning is returned when input arrives outside a running test.
	ErrNotRunning = errors.New("session is not running")
	// ErrNoPassage is returned when starting without a passage.
	ErrNoPassage = errors.New("no passage loaded")
)

// PassageSource supplies a passage for each new session.
type PassageSource interface {
	Select() string
}

// Presenter receives state changes. Calls happen synchronously from the
// session's transition methods.
type Presenter interface {
	Render(Snapshot)
	ShowResults(model.Result)
}

// Snapshot is the renderable state of a session.
type Snapshot struct {
	Status    model.Status
	Passage   []rune
	Input     []rune
	States    []model.CharState
	Metrics   model.Metrics
	Remaining int
}

// Session owns one typing attempt from passage selection to results.
type Session struct {
	src       PassageSource
	presenter Presenter
	now       func() time.Time
	seconds   int

	status    model.Status
	passage   []rune
	input     []rune
	startedAt time.Time
	endedAt   time.Time
	timer     Timer
	metrics   model.Metrics
	result    model.Result
	hasResult bool
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the wall clock used for elapsed time.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// WithPresenter attaches a presenter.
func WithPresenter(p Presenter) Option {
	return func(s *Session) {
		s.presenter = p
	}
}

// New returns an idle session holding a freshly selected passage.
func New(src PassageSource, opts ...Option) *Session {
	s := &Session{
		src:     src,
		now:     time.Now,
		seconds: int(model.TestDuration / time.Second),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()
	return s
}

// Start moves Idle to Running and arms the timer. The returned generation
// must accompany every tick delivered to Tick.
func (s *Session) Start() (uint64, error) {
	if s.status != model.StatusIdle {
		return 0, ErrNotIdle
	}
	if len(s.passage) == 0 {
		return 0, ErrNoPassage
	}
	s.startedAt = s.now()
	s.status = model.StatusRunning
	gen := s.timer.Start(s.seconds)
	s.recompute()
	s.render()
	return gen, nil
}

// Input replaces the typed text and rescores it. Reaching the passage length
// ends the session.
func (s *Session) Input(text string) error {
	if s.status != model.StatusRunning {
		return ErrNotRunning
	}
	runes := []rune(text)
	complete := len(runes) >= len(s.passage)
	if len(runes) > len(s.passage) {
		runes = runes[:len(s.passage)]
	}
	s.input = runes
	if complete {
		s.finish(false)
		return nil
	}
	s.recompute()
	s.render()
	return nil
}

// Tick applies one timer second for the given generation and reports whether
// the next tick should be scheduled.
func (s *Session) Tick(gen uint64) bool {
	if s.status != model.StatusRunning {
		return false
	}
	expired, live := s.timer.Tick(gen)
	if expired {
		s.finish(true)
		return false
	}
	if !live {
		return false
	}
	s.recompute()
	s.render()
	return true
}

// End stops a running session and publishes its results.
func (s *Session) End() {
	if s.status != model.StatusRunning {
		return
	}
	s.finish(false)
}

// Reset discards the current attempt and loads a new passage.
func (s *Session) Reset() {
	s.timer.Stop()
	s.timer.Set(s.seconds)
	s.status = model.StatusIdle
	s.input = nil
	s.startedAt = time.Time{}
	s.endedAt = time.Time{}
	s.result = model.Result{}
	s.hasResult = false
	s.passage = nil
	if s.src != nil {
		s.passage = []rune(s.src.Select())
	}
	s.recompute()
	s.render()
}

// TryAgain dismisses the results of an ended session and resets.
func (s *Session) TryAgain() {
	s.Reset()
}

// Status returns the lifecycle state.
func (s *Session) Status() model.Status {
	return s.status
}

// Passage returns the active passage.
func (s *Session) Passage() string {
	return string(s.passage)
}

// Metrics returns the latest metrics. They are frozen once the session ends.
func (s *Session) Metrics() model.Metrics {
	return s.metrics
}

// Remaining returns the seconds left on the timer.
func (s *Session) Remaining() int {
	return s.timer.Remaining()
}

// TimerGeneration returns the generation live ticks must carry.
func (s *Session) TimerGeneration() uint64 {
	return s.timer.Generation()
}

// Result returns the final result once the session has ended.
func (s *Session) Result() (model.Result, bool) {
	return s.result, s.hasResult
}

// Elapsed returns the time spent typing, frozen at the end instant.
func (s *Session) Elapsed() time.Duration {
	switch s.status {
	case model.StatusRunning:
		return s.now().Sub(s.startedAt)
	case model.StatusEnded:
		return s.endedAt.Sub(s.startedAt)
	default:
		return 0
	}
}

// Snapshot returns a copy of the renderable state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Status:    s.status,
		Passage:   append([]rune(nil), s.passage...),
		Input:     append([]rune(nil), s.input...),
		States:    scoring.States(s.passage, s.input),
		Metrics:   s.metrics,
		Remaining: s.timer.Remaining(),
	}
}

func (s *Session) finish(timedOut bool) {
	s.timer.Stop()
	s.endedAt = s.now()
	s.status = model.StatusEnded
	s.recompute()
	s.result = model.Result{
		StartedAt: s.startedAt,
		EndedAt:   s.endedAt,
		Passage:   string(s.passage),
		Metrics:   s.metrics,
		TimedOut:  timedOut,
	}
	s.hasResult = true
	s.render()
	if s.presenter != nil {
		s.presenter.ShowResults(s.result)
	}
}

func (s *Session) recompute() {
	s.metrics = scoring.Score(s.passage, s.input, s.Elapsed())
}

func (s *Session) render() {
	if s.presenter == nil {
		return
	}
	s.presenter.Render(s.Snapshot())
}
