// Package stats keeps the attempts of one run and summarizes them.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/typesprint/internal/model"
)

const sparkChars = " .:-=+*#%@"

// History records finished attempts in memory for the lifetime of the process.
type History struct {
	results []model.Result
}

// Add appends a finished attempt.
func (h *History) Add(r model.Result) {
	h.results = append(h.results, r)
}

// Len returns the number of recorded attempts.
func (h *History) Len() int {
	return len(h.results)
}

// Results returns the recorded attempts, oldest first.
func (h *History) Results() []model.Result {
	return append([]model.Result(nil), h.results...)
}

// Summary aggregates a set of attempts.
type Summary struct {
	Attempts    int
	AvgWPM      float64
	BestWPM     int
	AvgAccuracy float64
	TotalChars  int
	TotalTime   time.Duration
}

// Summarize computes aggregate figures over the attempts.
func Summarize(results []model.Result) Summary {
	var s Summary
	if len(results) == 0 {
		return s
	}
	var wpmSum, accSum float64
	for _, r := range results {
		wpmSum += float64(r.Metrics.WPM)
		accSum += float64(r.Metrics.Accuracy)
		if r.Metrics.WPM > s.BestWPM {
			s.BestWPM = r.Metrics.WPM
		}
		s.TotalChars += r.Metrics.Typed
		s.TotalTime += r.Duration()
	}
	count := float64(len(results))
	s.Attempts = len(results)
	s.AvgWPM = wpmSum / count
	s.AvgAccuracy = accSum / count
	return s
}

// WPMSeries extracts the WPM of each attempt.
func WPMSeries(results []model.Result) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = float64(r.Metrics.WPM)
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints the attempts of a run followed by aggregate figures.
func RenderSummary(w io.Writer, results []model.Result, window int) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No attempts finished.")
		return err
	}
	headers := []string{"#", "WPM", "Accuracy", "Chars", "Time", "Outcome"}
	rows := make([][]string, 0, len(results))
	for i, r := range results {
		rows = append(rows, AttemptRow(i+1, r))
	}
	rightAlign := map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	s := Summarize(results)
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Attempts: %d\n", s.Attempts); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg WPM: %.1f\n", s.AvgWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best WPM: %d\n", s.BestWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Accuracy: %.1f%%\n", s.AvgAccuracy); err != nil {
		return err
	}
	if len(results) > 1 {
		trend := Sparkline(MovingAverage(WPMSeries(results), window))
		if _, err := fmt.Fprintf(w, "WPM trend: [%s]\n", trend); err != nil {
			return err
		}
	}
	return nil
}

// AttemptRow formats one attempt as table cells.
func AttemptRow(n int, r model.Result) []string {
	outcome := "complete"
	if r.TimedOut {
		outcome = "time up"
	}
	return []string{
		fmt.Sprintf("%d", n),
		fmt.Sprintf("%d", r.Metrics.WPM),
		fmt.Sprintf("%d%%", r.Metrics.Accuracy),
		fmt.Sprintf("%d", r.Metrics.Typed),
		fmt.Sprintf("%.1fs", r.Duration().Seconds()),
		outcome,
	}
}
