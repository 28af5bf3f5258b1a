package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the TUI.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	Tab          key.Binding
	Space        key.Binding
	Add          key.Binding
	AddMilestone key.Binding
	Delete       key.Binding
	Colors       key.Binding
	ClearAll     key.Binding
	Reload       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous color"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next color"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Space: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "complete / toggle"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add activity"),
		),
		AddMilestone: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "add milestone"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Colors: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "category colors"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "clear all data"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the footer help text.
func (k KeyMap) ShortHelp() string {
	return "↑↓ nav  tab pane  space done  a add  m milestone  d delete  c colors  ? help"
}

// FullHelp returns all key bindings for the help modal.
func (k KeyMap) FullHelp() [][]string {
	return [][]string{
		{"↑/k", "Move up"},
		{"↓/j", "Move down"},
		{"tab", "Switch pane (today / journey)"},
		{"space", "Complete activity / toggle milestone"},
		{"a", "Add activity"},
		{"m", "Add milestone"},
		{"d", "Delete selection (with confirmation)"},
		{"c", "Edit category colors"},
		{"X", "Clear all data (with confirmation)"},
		{"R", "Reload from disk"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
}
