package tui

import "github.com/toodo-app/toodo/internal/models"

// TodosLoadedMsg carries the active todos, most recently updated first.
type TodosLoadedMsg struct {
	Todos []*models.Todo
}

// TodosChangedMsg signals that a todo file changed on disk.
type TodosChangedMsg struct {
	Key string
}

// TodoMutatedMsg is returned after the board itself changed a todo.
type TodoMutatedMsg struct {
	Key    string
	Status string
}

// ErrorMsg carries an error from a store operation.
type ErrorMsg struct {
	Err error
}

// clearStatusMsg clears the transient status line.
type clearStatusMsg struct{}

// expiryTickMsg drives the periodic reload that drops expired todos.
type expiryTickMsg struct{}
