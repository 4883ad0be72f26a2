package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start key.Binding
	Work  key.Binding
	Break key.Binding
	Reset key.Binding
	Tab1  key.Binding
	Tab2  key.Binding
	Tab   key.Binding
	Help  key.Binding
	Enter key.Binding
	Back  key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Start: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "start/resume"),
	),
	Work: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "work"),
	),
	Break: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "break"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset today"),
	),
	Tab1: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "timer"),
	),
	Tab2: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "stats"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Work, k.Break, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Work, k.Break},
		{k.Reset, k.Tab1, k.Tab2},
		{k.Enter, k.Back, k.Quit},
	}
}
