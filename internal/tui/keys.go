package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the control bindings. It implements help.KeyMap so the
// footer renders from the same definitions.
type keyMap struct {
	Record key.Binding
	Stop   key.Binding
	Save   key.Binding
	Load   key.Binding
	Clear  key.Binding
	Back   key.Binding
	Select key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Record: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "record")),
		Stop:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "stop")),
		Save:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Load:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open session")),
		Clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "load")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Record, k.Stop, k.Save, k.Load, k.Clear, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Record, k.Stop, k.Clear},
		{k.Save, k.Load, k.Select, k.Back},
		{k.Quit},
	}
}
