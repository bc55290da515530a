// Package model defines shared data structures.
package model

import "time"

// TestDuration is the fixed length of a typing test.
const TestDuration = 60 * time.Second

// Config defines test settings.
type Config struct {
	PassagesFile string
	ASCIIQuotes  bool
	Seed         int64
	Debug        bool
}

// Status is the lifecycle state of a typing session.
type Status int

const (
	// StatusIdle means a passage is loaded and the test has not started.
	StatusIdle Status = iota
	// StatusRunning means the timer is live and input is accepted.
	StatusRunning
	// StatusEnded means the test finished and input is locked.
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// CharState is the rendering state of one passage character.
type CharState int

const (
	// CharPending is a character not reached yet.
	CharPending CharState = iota
	// CharCurrent is the next character to type.
	CharCurrent
	// CharCorrect is a typed character matching the passage.
	CharCorrect
	// CharIncorrect is a typed character not matching the passage.
	CharIncorrect
)

// Metrics are derived from a passage, the current input, and elapsed time.
type Metrics struct {
	Errors   int
	Typed    int
	WPM      int
	Accuracy int
	Progress float64
}

// Result captures a finished attempt.
type Result struct {
	StartedAt time.Time
	EndedAt   time.Time
	Passage   string
	Metrics   Metrics
	TimedOut  bool
}

// Duration returns how long the attempt ran.
func (r Result) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.EndedAt.Before(r.StartedAt) {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}
