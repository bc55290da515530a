package typing

import (
	"errors"
	"testing"
	"time"

	"github.com/verte-zerg/typesprint/internal/model"
)

type fixedSource struct {
	passages []string
	next     int
}

func (f *fixedSource) Select() string {
	p := f.passages[f.next%len(f.passages)]
	f.next++
	return p
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

type recordingPresenter struct {
	renders []Snapshot
	results []model.Result
}

func (p *recordingPresenter) Render(s Snapshot) {
	p.renders = append(p.renders, s)
}

func (p *recordingPresenter) ShowResults(r model.Result) {
	p.results = append(p.results, r)
}

func newTestSession(passages ...string) (*Session, *fakeClock, *recordingPresenter) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	pres := &recordingPresenter{}
	s := New(&fixedSource{passages: passages}, WithClock(clock.Now), WithPresenter(pres))
	return s, clock, pres
}

func TestNewSessionIsIdle(t *testing.T) {
	s, _, pres := newTestSession("cat")
	if s.Status() != model.StatusIdle {
		t.Fatalf("expected idle, got %v", s.Status())
	}
	if s.Passage() != "cat" {
		t.Fatalf("expected passage to be loaded, got %q", s.Passage())
	}
	if s.Remaining() != 60 {
		t.Fatalf("expected 60 seconds, got %d", s.Remaining())
	}
	if len(pres.renders) == 0 {
		t.Fatalf("expected initial render")
	}
}

func TestInputBeforeStartIsRejected(t *testing.T) {
	s, _, _ := newTestSession("cat")
	if err := s.Input("c"); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
	if s.Metrics().Typed != 0 {
		t.Fatalf("expected no typed chars")
	}
}

func TestStartTwiceFails(t *testing.T) {
	s, _, _ := newTestSession("cat")
	if _, err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.Start(); !errors.Is(err, ErrNotIdle) {
		t.Fatalf("expected ErrNotIdle, got %v", err)
	}
}

func TestCompletingPassageEndsSession(t *testing.T) {
	s, clock, pres := newTestSession("cat")
	if _, err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(6 * time.Second)
	if err := s.Input("cat"); err != nil {
		t.Fatalf("input: %v", err)
	}
	if s.Status() != model.StatusEnded {
		t.Fatalf("expected ended, got %v", s.Status())
	}
	m := s.Metrics()
	if m.Typed != 3 || m.Errors != 0 || m.Accuracy != 100 || m.Progress != 100 {
		t.Fatalf("unexpected final metrics: %+v", m)
	}
	if m.WPM != 6 {
		t.Fatalf("expected 6 WPM, got %d", m.WPM)
	}
	if len(pres.results) != 1 {
		t.Fatalf("expected one results notification, got %d", len(pres.results))
	}
	if pres.results[0].TimedOut {
		t.Fatalf("expected completion, not timeout")
	}
	if pres.results[0].Duration() != 6*time.Second {
		t.Fatalf("unexpected duration: %v", pres.results[0].Duration())
	}
}

func TestInputTracksErrors(t *testing.T) {
	s, clock, _ := newTestSession("cats")
	if _, err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(6 * time.Second)
	if err := s.Input("cob"); err != nil {
		t.Fatalf("input: %v", err)
	}
	m := s.Metrics()
	if m.Errors != 2 || m.Typed != 3 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
	if m.Accuracy != 33 {
		t.Fatalf("expected accuracy 33, got %d", m.Accuracy)
	}
	snap := s.Snapshot()
	want := []model.CharState{model.CharCorrect, model.CharIncorrect, model.CharIncorrect, model.CharCurrent}
	for i := range want {
		if snap.States[i] != want[i] {
			t.Fatalf("state %d: expected %v, got %v", i, want[i], snap.States[i])
		}
	}
	if err := s.Input("c"); err != nil {
		t.Fatalf("input after deletion: %v", err)
	}
	if s.Metrics().Errors != 0 || s.Metrics().Typed != 1 {
		t.Fatalf("expected deletion to rescore, got %+v", s.Metrics())
	}
}

func TestTimeoutEndsSession(t *testing.T) {
	s, clock, pres := newTestSession("cat")
	gen, err := s.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Input("ca"); err != nil {
		t.Fatalf("input: %v", err)
	}
	ticks := 0
	for {
		clock.Advance(time.Second)
		ticks++
		if !s.Tick(gen) {
			break
		}
	}
	if ticks != 60 {
		t.Fatalf("expected 60 ticks, got %d", ticks)
	}
	if s.Status() != model.StatusEnded {
		t.Fatalf("expected ended, got %v", s.Status())
	}
	if s.Remaining() != 0 {
		t.Fatalf("expected 0 remaining, got %d", s.Remaining())
	}
	final := s.Metrics()
	if final.Typed != 2 || final.Errors != 0 {
		t.Fatalf("unexpected frozen metrics: %+v", final)
	}
	if err := s.Input("cat"); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected input to be locked, got %v", err)
	}
	clock.Advance(time.Minute)
	if s.Metrics() != final {
		t.Fatalf("expected metrics to stay frozen")
	}
	if len(pres.results) != 1 || !pres.results[0].TimedOut {
		t.Fatalf("expected one timed out result, got %+v", pres.results)
	}
}

func TestStaleTickAfterEndIsIgnored(t *testing.T) {
	s, _, pres := newTestSession("cat")
	gen, err := s.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	s.End()
	remaining := s.Remaining()
	if s.Tick(gen) {
		t.Fatalf("expected stale tick to stop scheduling")
	}
	if s.Remaining() != remaining || s.Status() != model.StatusEnded {
		t.Fatalf("stale tick changed ended session")
	}
	if len(pres.results) != 1 {
		t.Fatalf("expected exactly one results notification, got %d", len(pres.results))
	}
}

func TestStaleTickAfterResetDoesNotAffectNewRun(t *testing.T) {
	s, _, _ := newTestSession("cat", "dog")
	old, err := s.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Reset()
	gen, err := s.Start()
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if s.Tick(old) {
		t.Fatalf("expected tick from previous run to be dropped")
	}
	if s.Remaining() != 60 {
		t.Fatalf("expected stale tick to leave remaining untouched, got %d", s.Remaining())
	}
	if !s.Tick(gen) || s.Remaining() != 59 {
		t.Fatalf("expected live tick to count, remaining %d", s.Remaining())
	}
}

func TestResetAfterEnd(t *testing.T) {
	s, _, _ := newTestSession("cat", "dog")
	gen, err := s.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Tick(gen)
	if err := s.Input("cat"); err != nil {
		t.Fatalf("input: %v", err)
	}
	s.TryAgain()
	if s.Status() != model.StatusIdle {
		t.Fatalf("expected idle, got %v", s.Status())
	}
	if s.Remaining() != 60 {
		t.Fatalf("expected 60 seconds, got %d", s.Remaining())
	}
	if s.Passage() != "dog" {
		t.Fatalf("expected new passage, got %q", s.Passage())
	}
	m := s.Metrics()
	if m.Typed != 0 || m.Errors != 0 || m.WPM != 0 || m.Progress != 0 {
		t.Fatalf("expected zeroed counters, got %+v", m)
	}
	if _, ok := s.Result(); ok {
		t.Fatalf("expected result to be cleared")
	}
	if s.Elapsed() != 0 {
		t.Fatalf("expected no elapsed time when idle")
	}
}

func TestZeroElapsedReportsZeroWPM(t *testing.T) {
	s, _, _ := newTestSession("cat")
	if _, err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Input("ca"); err != nil {
		t.Fatalf("input: %v", err)
	}
	if s.Metrics().WPM != 0 {
		t.Fatalf("expected 0 WPM at the start instant, got %d", s.Metrics().WPM)
	}
}

func TestOverlongInputIsClamped(t *testing.T) {
	s, clock, _ := newTestSession("cat")
	if _, err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(time.Second)
	if err := s.Input("catapult"); err != nil {
		t.Fatalf("input: %v", err)
	}
	snap := s.Snapshot()
	if len(snap.Input) != 3 || snap.Metrics.Typed != 3 {
		t.Fatalf("expected input clamped to passage length, got %q", string(snap.Input))
	}
	if s.Status() != model.StatusEnded {
		t.Fatalf("expected ended, got %v", s.Status())
	}
}

func TestEndWhenIdleIsNoop(t *testing.T) {
	s, _, pres := newTestSession("cat")
	s.End()
	if s.Status() != model.StatusIdle || len(pres.results) != 0 {
		t.Fatalf("expected End to ignore idle sessions")
	}
}
