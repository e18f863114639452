package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Select key.Binding
	Send   key.Binding
	Focus  key.Binding
	Chat   key.Binding
	Scroll key.Binding
	Back   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Send, k.Chat, k.Back, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Select},
		{k.Focus, k.Send, k.Scroll, k.Chat},
		{k.Back, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
	Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "move left")),
	Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "move right")),
	Select: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select card / profile")),
	Send:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send message")),
	Focus:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch grid/chat")),
	Chat:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "toggle chat")),
	Scroll: key.NewBinding(key.WithKeys("pgup", "pgdown"), key.WithHelp("pgup/pgdn", "scroll chat")),
	Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to profiles")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
