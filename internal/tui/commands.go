package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// expiryInterval is how often the board reloads so expired todos disappear
// even when no file changes.
const expiryInterval = 15 * time.Second

func loadTodosCmd(store Store) tea.Cmd {
	return func() tea.Msg {
		todos, err := store.List()
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return TodosLoadedMsg{Todos: todos}
	}
}

func createTodoCmd(store Store, name string) tea.Cmd {
	return func() tea.Msg {
		todo, err := store.Create(name)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return TodoMutatedMsg{Key: todo.Key, Status: fmt.Sprintf("Created '%s'", todo.Name)}
	}
}

func addStepCmd(store Store, key, description string) tea.Cmd {
	return func() tea.Msg {
		if _, err := store.AddStep(key, description); err != nil {
			return ErrorMsg{Err: err}
		}
		return TodoMutatedMsg{Key: key, Status: "Step added"}
	}
}

func completeStepCmd(store Store, key string, index int) tea.Cmd {
	return func() tea.Msg {
		if _, err := store.CompleteStep(key, index); err != nil {
			return ErrorMsg{Err: err}
		}
		return TodoMutatedMsg{Key: key, Status: fmt.Sprintf("Step %d completed", index)}
	}
}

func deleteStepCmd(store Store, key string, index int) tea.Cmd {
	return func() tea.Msg {
		if _, err := store.DeleteStep(key, index); err != nil {
			return ErrorMsg{Err: err}
		}
		return TodoMutatedMsg{Key: key, Status: fmt.Sprintf("Step %d deleted", index)}
	}
}

func deleteTodoCmd(store Store, key string) tea.Cmd {
	return func() tea.Msg {
		if err := store.Delete(key); err != nil {
			return ErrorMsg{Err: err}
		}
		return TodoMutatedMsg{Status: "Todo deleted"}
	}
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func expiryTick() tea.Cmd {
	return tea.Tick(expiryInterval, func(_ time.Time) tea.Msg {
		return expiryTickMsg{}
	})
}
