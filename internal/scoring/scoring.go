// Package scoring compares typed input against a passage.
package scoring

import (
	"math"
	"time"

	"github.com/verte-zerg/typesprint/internal/model"
)

// CharsPerWord is the standard word length used for WPM.
const CharsPerWord = 5

// Score recomputes all metrics from scratch. Input past the end of the
// passage is ignored.
func Score(passage, input []rune, elapsed time.Duration) model.Metrics {
	input = clamp(passage, input)
	typed := len(input)
	errs := countErrors(passage, input)
	return model.Metrics{
		Errors:   errs,
		Typed:    typed,
		WPM:      NetWPM(typed, errs, elapsed),
		Accuracy: Accuracy(typed, errs),
		Progress: Progress(typed, len(passage)),
	}
}

// States returns the per-character state of the passage for the given input.
func States(passage, input []rune) []model.CharState {
	input = clamp(passage, input)
	out := make([]model.CharState, len(passage))
	for i, want := range passage {
		switch {
		case i < len(input) && input[i] == want:
			out[i] = model.CharCorrect
		case i < len(input):
			out[i] = model.CharIncorrect
		case i == len(input):
			out[i] = model.CharCurrent
		default:
			out[i] = model.CharPending
		}
	}
	return out
}

// NetWPM is gross WPM minus errors per minute, rounded and floored at zero.
// A non-positive elapsed time yields zero.
func NetWPM(typed, errs int, elapsed time.Duration) int {
	minutes := elapsed.Minutes()
	if minutes <= 0 || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return 0
	}
	gross := (float64(typed) / CharsPerWord) / minutes
	net := math.Round(gross - float64(errs)/minutes)
	if math.IsNaN(net) || math.IsInf(net, 0) || net < 0 {
		return 0
	}
	return int(net)
}

// Accuracy is the rounded share of typed characters that match. Nothing
// typed counts as 100.
func Accuracy(typed, errs int) int {
	if typed <= 0 {
		return 100
	}
	if errs > typed {
		errs = typed
	}
	return int(math.Round(float64(typed-errs) / float64(typed) * 100))
}

// Progress is the share of the passage covered by the input, capped at 100.
func Progress(typed, passageLen int) float64 {
	if passageLen <= 0 {
		return 100
	}
	p := float64(typed) / float64(passageLen) * 100
	if p > 100 {
		return 100
	}
	return p
}

func countErrors(passage, input []rune) int {
	errs := 0
	for i, r := range input {
		if r != passage[i] {
			errs++
		}
	}
	return errs
}

func clamp(passage, input []rune) []rune {
	if len(input) > len(passage) {
		return input[:len(passage)]
	}
	return input
}
