package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toodo-app/toodo/internal/daemon/todo"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds msg to the model and resolves the returned command once, feeding
// its message back in.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	if out := cmd(); out != nil {
		if _, batch := out.(tea.BatchMsg); batch {
			return m
		}
		next, _ = m.Update(out)
		m = next.(Model)
	}
	return m
}

func newTestBoard(t *testing.T) (Model, *todo.Manager) {
	t.Helper()
	store := todo.NewManager(t.TempDir(), time.Hour)
	m := NewModel(store)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, store
}

func reload(t *testing.T, m Model) Model {
	t.Helper()
	return send(t, m, loadTodosCmd(m.store)())
}

func TestBoardSelectsMostRecentTodo(t *testing.T) {
	m, store := newTestBoard(t)
	_, err := store.Create("older")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = store.Create("newer")
	require.NoError(t, err)

	m = reload(t, m)
	require.Len(t, m.todos, 2)
	assert.Equal(t, "newer", m.selected)

	m = send(t, m, runes("l"))
	assert.Equal(t, "older", m.selected)
	m = send(t, m, runes("l"))
	assert.Equal(t, "newer", m.selected)
}

func TestBoardCompletesAndDeletesSteps(t *testing.T) {
	m, store := newTestBoard(t)
	_, err := store.Create("work")
	require.NoError(t, err)
	_, err = store.AddStep("work", "one")
	require.NoError(t, err)
	_, err = store.AddStep("work", "two")
	require.NoError(t, err)
	m = reload(t, m)

	m = send(t, m, runes("j"))
	assert.Equal(t, 1, m.cursor)

	m = send(t, m, runes(" "))
	got, err := store.Get("work")
	require.NoError(t, err)
	assert.False(t, got.Steps[0].Completed)
	assert.True(t, got.Steps[1].Completed)

	m = send(t, m, runes("x"))
	got, err = store.Get("work")
	require.NoError(t, err)
	require.Len(t, got.Steps, 1)
	assert.Equal(t, "one", got.Steps[0].Description)

	m = reload(t, m)
	assert.Equal(t, 0, m.cursor)
}

func TestBoardAddStepThroughInput(t *testing.T) {
	m, store := newTestBoard(t)
	_, err := store.Create("trip")
	require.NoError(t, err)
	m = reload(t, m)

	next, _ := m.Update(runes("a"))
	m = next.(Model)
	require.Equal(t, inputAddStep, m.inputMode)

	m.input.SetValue("pack bags")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, inputNone, m.inputMode)

	got, err := store.Get("trip")
	require.NoError(t, err)
	require.Len(t, got.Steps, 1)
	assert.Equal(t, "pack bags", got.Steps[0].Description)
}

func TestBoardDeleteTodoNeedsConfirmation(t *testing.T) {
	m, store := newTestBoard(t)
	_, err := store.Create("doomed")
	require.NoError(t, err)
	m = reload(t, m)

	m = send(t, m, runes("D"))
	assert.True(t, m.confirmDelete)
	assert.Contains(t, m.View(), "Delete 'doomed'? (y/n)")

	m = send(t, m, runes("n"))
	assert.False(t, m.confirmDelete)
	got, err := store.Get("doomed")
	require.NoError(t, err)
	assert.NotNil(t, got)

	m = send(t, m, runes("D"))
	m = send(t, m, runes("y"))
	got, err = store.Get("doomed")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBoardShowsErrors(t *testing.T) {
	m, _ := newTestBoard(t)

	m = send(t, m, ErrorMsg{Err: todo.ErrNotFound})
	assert.Contains(t, m.View(), "todo not found")
}

func TestBoardEmptyView(t *testing.T) {
	m, _ := newTestBoard(t)
	m = reload(t, m)

	assert.Contains(t, m.View(), "No active todos")
}
