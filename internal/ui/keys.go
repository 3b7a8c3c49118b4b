package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap binds keyboard keys to the five device buttons.
type keyMap struct {
	Next      key.Binding
	Previous  key.Binding
	Up        key.Binding
	Down      key.Binding
	Reset     key.Binding
	HoldReset key.Binding
	Quit      key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Previous, k.Up, k.Down, k.Reset, k.HoldReset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Previous, k.Up, k.Down},
		{k.Reset, k.HoldReset, k.Quit},
	}
}

var keys = keyMap{
	Next:      key.NewBinding(key.WithKeys("n", "right", "l"), key.WithHelp("n/→", "next screen")),
	Previous:  key.NewBinding(key.WithKeys("p", "left", "h"), key.WithHelp("p/←", "prev screen")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "next panel")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "prev panel")),
	Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset panel")),
	HoldReset: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "hold reset")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
