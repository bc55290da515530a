package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/verte-zerg/typesprint/internal/model"
)

type keyMap struct {
	Start    key.Binding
	TryAgain key.Binding
	Reset    key.Binding
	Cancel   key.Binding
	Quit     key.Binding
	Exit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
		TryAgain: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "try again")),
		Reset:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "new passage")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "reset")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Exit:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "quit")),
	}
}

// sync enables only the bindings that apply to the given status.
func (k *keyMap) sync(status model.Status) {
	k.Start.SetEnabled(status == model.StatusIdle)
	k.TryAgain.SetEnabled(status == model.StatusEnded)
	k.Cancel.SetEnabled(status == model.StatusRunning)
	k.Exit.SetEnabled(status != model.StatusRunning)
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.TryAgain, k.Cancel, k.Reset, k.Exit, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
