package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typesprint/internal/model"
)

const maxAttemptRows = 5

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = currentWordStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	statLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	statValueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	timerLowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	barFilledStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	barEmptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	cardStyle        = lipgloss.NewStyle().
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.snap.Passage) == 0 {
		return ""
	}
	if m.showResults {
		return m.viewResults()
	}
	styled := buildStyledRunes(m.snap.Passage, m.snap.States)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styled)
	}
	contentWidth := max(int(float64(m.width)*0.70), 1)
	wrapped := wrapStyledRunes(styled, contentWidth)
	sections := []string{
		m.renderStats(),
		"",
		lipgloss.NewStyle().Width(contentWidth).Render(wrapped),
		"",
		m.renderProgress(contentWidth),
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	footer := footerStyle.Render(m.help.View(m.keys))
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderStats() string {
	timer := statValueStyle.Render(fmt.Sprintf("%ds", m.snap.Remaining))
	if m.snap.Status == model.StatusRunning && m.snap.Remaining <= 10 {
		timer = timerLowStyle.Render(fmt.Sprintf("%ds", m.snap.Remaining))
	}
	segments := []string{
		statLabelStyle.Render("Time ") + timer,
		statLabelStyle.Render("WPM ") + statValueStyle.Render(fmt.Sprintf("%d", m.snap.Metrics.WPM)),
		statLabelStyle.Render("Accuracy ") + statValueStyle.Render(fmt.Sprintf("%d%%", m.snap.Metrics.Accuracy)),
		statLabelStyle.Render("Chars ") + statValueStyle.Render(fmt.Sprintf("%d", m.snap.Metrics.Typed)),
	}
	return strings.Join(segments, "   ")
}

func (m *Model) renderProgress(width int) string {
	label := progressLabel(m.snap.Status, m.snap.Metrics.Progress)
	barWidth := width - len(label) - 2
	if barWidth < 1 {
		return footerStyle.Render(label)
	}
	return progressBar(m.snap.Metrics.Progress, barWidth) + "  " + footerStyle.Render(label)
}

func progressBar(progress float64, width int) string {
	filled := int(math.Round(progress / 100 * float64(width)))
	filled = max(0, min(filled, width))
	return barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

func progressLabel(status model.Status, progress float64) string {
	switch {
	case status == model.StatusIdle:
		return "Ready to start"
	case progress >= 100:
		return "Complete!"
	case status == model.StatusEnded:
		return "Time's up!"
	case progress == 0:
		return "Test in progress..."
	default:
		return fmt.Sprintf("%d%% complete", int(math.Round(progress)))
	}
}

func (m *Model) viewResults() string {
	title := "Test Complete!"
	if m.result.TimedOut {
		title = "Time's Up!"
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("WPM", fmt.Sprintf("%d", m.result.Metrics.WPM)),
		metricCard("Accuracy", fmt.Sprintf("%d%%", m.result.Metrics.Accuracy)),
		metricCard("Characters", fmt.Sprintf("%d", m.result.Metrics.Typed)),
	)
	parts := []string{titleStyle.Render(title), "", cards}
	if m.history.Len() > 1 {
		parts = append(parts, "", statLabelStyle.Render("This run"), m.attempts.View())
	}
	parts = append(parts, "", footerStyle.Render(m.help.View(m.keys)))
	modal := modalStyle.Render(lipgloss.JoinVertical(lipgloss.Center, parts...))
	if m.width == 0 || m.height == 0 {
		return modal
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func metricCard(label, value string) string {
	body := lipgloss.JoinVertical(lipgloss.Center, statLabelStyle.Render(label), statValueStyle.Render(value))
	return cardStyle.Render(body)
}

func newAttemptsTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "WPM", Width: 5},
		{Title: "Acc", Width: 5},
		{Title: "Chars", Width: 6},
		{Title: "Time", Width: 7},
		{Title: "Outcome", Width: 9},
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		BorderBottom(true).
		Bold(false)
	styles.Selected = styles.Cell.Foreground(lipgloss.Color("#F0F0F0"))
	return table.New(
		table.WithColumns(columns),
		table.WithHeight(2),
		table.WithFocused(false),
		table.WithStyles(styles),
	)
}
