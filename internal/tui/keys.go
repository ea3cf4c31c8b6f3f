package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	New      key.Binding
	Close    key.Binding
	Maximize key.Binding
	Next     key.Binding
	Tile     key.Binding
	Undo     key.Binding
	Cycle    key.Binding
	Save     key.Binding
	Restore  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Close:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close")),
		Maximize: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "maximize")),
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Tile:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "tile")),
		Undo:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo tile")),
		Cycle:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "arrangement")),
		Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save layout")),
		Restore:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restore layout")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Close, k.Maximize, k.Tile, k.Save, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Close, k.Maximize, k.Next},
		{k.Tile, k.Undo, k.Cycle},
		{k.Save, k.Restore, k.Help, k.Quit},
	}
}
