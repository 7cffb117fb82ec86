package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next      key.Binding
	Prev      key.Binding
	First     key.Binding
	Last      key.Binding
	Direction key.Binding
	Side      key.Binding
	Menu      key.Binding
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Back      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Next:      key.NewBinding(key.WithKeys("right", "l", "n", " "), key.WithHelp("→/l", "next")),
	Prev:      key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←/h", "prev")),
	First:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
	Last:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "normal form")),
	Direction: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "flip direction")),
	Side:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "tk/qasm")),
	Menu:      key.NewBinding(key.WithKeys("a", "m"), key.WithHelp("a", "examples")),
	Up:        key.NewBinding(key.WithKeys("up", "k")),
	Down:      key.NewBinding(key.WithKeys("down", "j")),
	Select:    key.NewBinding(key.WithKeys("enter")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.First, k.Last, k.Direction, k.Side, k.Menu, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.First, k.Last},
		{k.Direction, k.Side, k.Menu},
		{k.Back, k.Quit},
	}
}
