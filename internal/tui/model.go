// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"errors"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/stats"
	"github.com/verte-zerg/typesprint/internal/typing"
)

// tickMsg carries the timer generation it was scheduled for.
type tickMsg struct {
	gen uint64
}

func tickCmd(gen uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// Model implements the Bubble Tea typing UI. It is the session's presenter:
// the session pushes snapshots and results into it, and View renders the
// latest ones.
type Model struct {
	session *typing.Session
	history *stats.History

	keys     keyMap
	help     help.Model
	attempts table.Model

	width  int
	height int

	input       []rune
	snap        typing.Snapshot
	result      model.Result
	showResults bool
}

// NewModel constructs a typing TUI model around a fresh session.
func NewModel(src typing.PassageSource, history *stats.History, opts ...typing.Option) *Model {
	if history == nil {
		history = &stats.History{}
	}
	m := &Model{
		history:  history,
		keys:     defaultKeyMap(),
		help:     help.New(),
		attempts: newAttemptsTable(),
	}
	opts = append(opts, typing.WithPresenter(m))
	m.session = typing.New(src, opts...)
	m.refreshAttempts()
	return m
}

// Render implements typing.Presenter.
func (m *Model) Render(snap typing.Snapshot) {
	m.snap = snap
	m.keys.sync(snap.Status)
	if snap.Status != model.StatusEnded {
		m.showResults = false
	}
}

// ShowResults implements typing.Presenter.
func (m *Model) ShowResults(r model.Result) {
	m.result = r
	m.showResults = true
	m.history.Add(r)
	m.refreshAttempts()
	log.Printf("attempt finished: wpm=%d accuracy=%d chars=%d timed_out=%v",
		r.Metrics.WPM, r.Metrics.Accuracy, r.Metrics.Typed, r.TimedOut)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		if m.session.Tick(msg.gen) {
			return m, tickCmd(msg.gen)
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if msg.Paste {
		log.Printf("rejected pasted input (%d runes)", len(msg.Runes))
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Start):
		return m, m.start()
	case key.Matches(msg, m.keys.TryAgain):
		m.input = nil
		m.session.TryAgain()
		return m, nil
	case key.Matches(msg, m.keys.Reset), key.Matches(msg, m.keys.Cancel):
		m.input = nil
		m.session.Reset()
		return m, nil
	case key.Matches(msg, m.keys.Exit):
		return m, tea.Quit
	}
	if m.session.Status() != model.StatusRunning {
		return m, nil
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		m.handleBackspace()
	case tea.KeyCtrlW:
		m.handleDeleteWord()
	case tea.KeySpace:
		m.handleRunes([]rune{' '})
	case tea.KeyRunes:
		m.handleRunes(msg.Runes)
	}
	return m, nil
}

func (m *Model) start() tea.Cmd {
	gen, err := m.session.Start()
	if err != nil {
		log.Printf("start ignored: %v", err)
		return nil
	}
	log.Printf("test started: %d runes", len(m.snap.Passage))
	return tickCmd(gen)
}

func (m *Model) handleRunes(runes []rune) {
	room := len(m.snap.Passage) - len(m.input)
	if room <= 0 {
		return
	}
	if len(runes) > room {
		runes = runes[:room]
	}
	m.input = append(m.input, runes...)
	m.forwardInput()
}

func (m *Model) handleBackspace() {
	if len(m.input) == 0 {
		return
	}
	m.input = m.input[:len(m.input)-1]
	m.forwardInput()
}

func (m *Model) handleDeleteWord() {
	end := len(m.input)
	for end > 0 && m.input[end-1] == ' ' {
		end--
	}
	for end > 0 && m.input[end-1] != ' ' {
		end--
	}
	if end == len(m.input) {
		return
	}
	m.input = m.input[:end]
	m.forwardInput()
}

func (m *Model) forwardInput() {
	if err := m.session.Input(string(m.input)); err != nil && !errors.Is(err, typing.ErrNotRunning) {
		log.Printf("input rejected: %v", err)
	}
}

func (m *Model) refreshAttempts() {
	results := m.history.Results()
	rows := make([]table.Row, 0, len(results))
	for i, r := range results {
		rows = append(rows, table.Row(stats.AttemptRow(i+1, r)))
	}
	m.attempts.SetRows(rows)
	m.attempts.SetHeight(min(max(len(rows), 1), maxAttemptRows) + 1)
	m.attempts.GotoBottom()
}
