package typing

// Timer is a one-second countdown driven by externally scheduled ticks.
// Every Start and Stop bumps the generation; ticks carrying an older
// generation are dropped, so a cancelled countdown never fires again.
type Timer struct {
	gen       uint64
	remaining int
	running   bool
}

// Start arms the countdown and returns the generation its ticks must carry.
func (t *Timer) Start(seconds int) uint64 {
	t.gen++
	t.remaining = seconds
	t.running = seconds > 0
	return t.gen
}

// Stop cancels the countdown. Ticks already scheduled become stale.
func (t *Timer) Stop() {
	t.gen++
	t.running = false
}

// Set restores the remaining seconds without arming the timer.
func (t *Timer) Set(seconds int) {
	t.remaining = seconds
}

// Tick applies one elapsed second. live reports whether another tick should
// be scheduled; expired reports that this tick ran the countdown out.
func (t *Timer) Tick(gen uint64) (expired, live bool) {
	if !t.running || gen != t.gen {
		return false, false
	}
	t.remaining--
	if t.remaining <= 0 {
		t.remaining = 0
		t.running = false
		return true, false
	}
	return false, true
}

// Remaining returns the seconds left on the countdown.
func (t *Timer) Remaining() int {
	return t.remaining
}

// Running reports whether the countdown is armed.
func (t *Timer) Running() bool {
	return t.running
}

// Generation returns the current generation.
func (t *Timer) Generation() uint64 {
	return t.gen
}
