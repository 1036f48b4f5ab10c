package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every board binding. It implements help.KeyMap.
type keyMap struct {
	Prev       key.Binding
	Next       key.Binding
	Up         key.Binding
	Down       key.Binding
	Complete   key.Binding
	AddStep    key.Binding
	DeleteStep key.Binding
	NewTodo    key.Binding
	DeleteTodo key.Binding
	Refresh    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Prev: key.NewBinding(
		key.WithKeys("left", "h", "shift+tab"),
		key.WithHelp("←/h", "prev todo"),
	),
	Next: key.NewBinding(
		key.WithKeys("right", "l", "tab"),
		key.WithHelp("→/l", "next todo"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Complete: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "complete"),
	),
	AddStep: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add step"),
	),
	DeleteStep: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "delete step"),
	),
	NewTodo: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new todo"),
	),
	DeleteTodo: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "delete todo"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
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

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Down, k.Complete, k.AddStep, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Up, k.Down},
		{k.Complete, k.AddStep, k.DeleteStep},
		{k.NewTodo, k.DeleteTodo, k.Refresh},
		{k.Help, k.Quit},
	}
}

// inputKeys are active while the text input is shown.
type inputKeys struct {
	Submit key.Binding
	Cancel key.Binding
}

var formKeys = inputKeys{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "cancel"),
	),
}

// confirmKeys for the delete-todo prompt.
type confirmKeyMap struct {
	Yes key.Binding
	No  key.Binding
}

var confirmKeys = confirmKeyMap{
	Yes: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n", "cancel"),
	),
}
