package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap is the full key table. Card actions apply to the selected card;
// call and copy also work on the selected row of the calls pane.
type keyMap struct {
	Call     key.Binding
	NoAnswer key.Binding
	Complete key.Binding
	Postpone key.Binding
	Copy     key.Binding
	Close    key.Binding

	Up      key.Binding
	Down    key.Binding
	Focus   key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Call:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "call")),
		NoAnswer: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no answer")),
		Complete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "completed")),
		Postpone: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "+10 min")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy number")),
		Close:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close")),

		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Focus:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Refresh, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Call, k.NoAnswer, k.Complete, k.Postpone, k.Copy, k.Close},
		{k.Up, k.Down, k.Focus, k.Refresh, k.Help, k.Quit},
	}
}
