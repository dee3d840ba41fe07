package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Draw    key.Binding
	Trash   key.Binding
	Cancel  key.Binding
	Fit     key.Binding
	Corners key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓←→/hjkl", "pan")),
		Down:    key.NewBinding(key.WithKeys("down", "j")),
		Left:    key.NewBinding(key.WithKeys("left", "h")),
		Right:   key.NewBinding(key.WithKeys("right", "l")),
		ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "zoom")),
		ZoomOut: key.NewBinding(key.WithKeys("-", "_")),
		Draw:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "draw square")),
		Trash:   key.NewBinding(key.WithKeys("x", "delete", "backspace"), key.WithHelp("x", "trash")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "select")),
		Fit:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fit basemap")),
		Corners: key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "corners")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.ZoomIn, k.Draw, k.Trash, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.ZoomIn, k.Fit},
		{k.Draw, k.Trash, k.Cancel},
		{k.Corners, k.Help, k.Quit},
	}
}
