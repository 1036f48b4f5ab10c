package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/toodo-app/toodo/internal/models"
)

// inputMode values.
const (
	inputNone = iota
	inputAddStep
	inputNewTodo
)

// Model is the root Bubbletea model for the board.
type Model struct {
	store Store
	now   func() time.Time

	todos    []*models.Todo
	selected string // key of the selected todo
	cursor   int    // step cursor within the selected todo
	loaded   bool

	// UI state
	width         int
	height        int
	showHelp      bool
	inputMode     int
	confirmDelete bool
	input         textinput.Model
	help          help.Model

	// Status display
	err    error
	status string
}

// NewModel creates the initial board model.
func NewModel(store Store) Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Prompt = "› "

	return Model{
		store: store,
		now:   time.Now,
		input: ti,
		help:  help.New(),
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadTodosCmd(m.store), expiryTick())
}

// Update processes messages and returns an updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = msg.Width - 6
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TodosLoadedMsg:
		m.loaded = true
		m.setTodos(msg.Todos)
		return m, nil

	case TodosChangedMsg:
		return m, loadTodosCmd(m.store)

	case TodoMutatedMsg:
		m.err = nil
		m.status = msg.Status
		if msg.Key != "" {
			m.selected = msg.Key
		}
		return m, tea.Batch(loadTodosCmd(m.store), clearStatusAfter(3*time.Second))

	case ErrorMsg:
		m.err = msg.Err
		return m, loadTodosCmd(m.store)

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case expiryTickMsg:
		return m, tea.Batch(loadTodosCmd(m.store), expiryTick())
	}

	if m.inputMode != inputNone {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// setTodos replaces the todo list, keeping the selection on the same todo
// when it still exists.
func (m *Model) setTodos(todos []*models.Todo) {
	m.todos = todos
	if m.selectedIndex() < 0 {
		m.selected = ""
		if len(todos) > 0 {
			m.selected = todos[0].Key
		}
		m.cursor = 0
	}
	m.clampCursor()
}

func (m Model) selectedIndex() int {
	for i, t := range m.todos {
		if t.Key == m.selected {
			return i
		}
	}
	return -1
}

func (m Model) current() *models.Todo {
	if i := m.selectedIndex(); i >= 0 {
		return m.todos[i]
	}
	return nil
}

func (m *Model) clampCursor() {
	t := m.current()
	if t == nil || len(t.Steps) == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= len(t.Steps) {
		m.cursor = len(t.Steps) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) moveTodo(delta int) {
	if len(m.todos) == 0 {
		return
	}
	i := m.selectedIndex()
	if i < 0 {
		i = 0
	} else {
		i = (i + delta + len(m.todos)) % len(m.todos)
	}
	m.selected = m.todos[i].Key
	m.cursor = 0
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inputMode != inputNone {
		return m.handleInputKey(msg)
	}

	if m.confirmDelete {
		switch {
		case key.Matches(msg, confirmKeys.Yes):
			m.confirmDelete = false
			if t := m.current(); t != nil {
				return m, deleteTodoCmd(m.store, t.Key)
			}
		case key.Matches(msg, confirmKeys.No):
			m.confirmDelete = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, keys.Prev):
		m.moveTodo(-1)
	case key.Matches(msg, keys.Next):
		m.moveTodo(1)
	case key.Matches(msg, keys.Up):
		m.cursor--
		m.clampCursor()
	case key.Matches(msg, keys.Down):
		m.cursor++
		m.clampCursor()
	case key.Matches(msg, keys.Refresh):
		m.err = nil
		return m, loadTodosCmd(m.store)
	case key.Matches(msg, keys.NewTodo):
		return m, m.openInput(inputNewTodo, "todo name")
	case key.Matches(msg, keys.AddStep):
		if m.current() != nil {
			return m, m.openInput(inputAddStep, "step description")
		}
	case key.Matches(msg, keys.Complete):
		if t := m.current(); t != nil && len(t.Steps) > 0 && !t.Steps[m.cursor].Completed {
			return m, completeStepCmd(m.store, t.Key, m.cursor)
		}
	case key.Matches(msg, keys.DeleteStep):
		if t := m.current(); t != nil && len(t.Steps) > 0 {
			return m, deleteStepCmd(m.store, t.Key, m.cursor)
		}
	case key.Matches(msg, keys.DeleteTodo):
		if m.current() != nil {
			m.confirmDelete = true
		}
	}
	return m, nil
}

func (m *Model) openInput(mode int, placeholder string) tea.Cmd {
	m.inputMode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	return m.input.Focus()
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, formKeys.Cancel):
		m.inputMode = inputNone
		m.input.Blur()
		return m, nil
	case key.Matches(msg, formKeys.Submit):
		value := strings.TrimSpace(m.input.Value())
		mode := m.inputMode
		m.inputMode = inputNone
		m.input.Blur()
		if value == "" {
			return m, nil
		}
		if mode == inputNewTodo {
			return m, createTodoCmd(m.store, value)
		}
		if t := m.current(); t != nil {
			return m, addStepCmd(m.store, t.Key, value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
