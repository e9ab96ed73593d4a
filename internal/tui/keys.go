package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the dashboard-wide bindings. List navigation and filtering
// stay with the bubbles list.
type KeyMap struct {
	Tab, ShiftTab key.Binding
	Quit, Help    key.Binding
	Up, Down      key.Binding
	Refresh       key.Binding

	Add, Submit, Delete key.Binding

	// Confirm and Cancel answer the delete prompt.
	Confirm, Cancel key.Binding
}

func bind(help string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab:      bind("next tab", "tab"),
		ShiftTab: bind("prev tab", "shift+tab"),
		Quit:     bind("quit", "q", "ctrl+c"),
		Help:     bind("toggle help", "?"),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Refresh: bind("refresh", "r"),
		Add:     bind("add objective", "a"),
		Submit:  bind("submit", "s"),
		Delete:  bind("delete", "d"),
		Confirm: bind("yes", "y"),
		Cancel:  bind("no", "n", "esc"),
	}
}
