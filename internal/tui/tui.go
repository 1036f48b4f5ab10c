// Package tui implements the live todo board for toodo.
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/toodo-app/toodo/internal/daemon/watcher"
	"github.com/toodo-app/toodo/internal/models"
)

// Store is the subset of the todo manager the board drives.
type Store interface {
	Dir() string
	List() ([]*models.Todo, error)
	Create(name string) (*models.Todo, error)
	AddStep(name, description string) (*models.Todo, error)
	CompleteStep(name string, index int) (*models.Todo, error)
	DeleteStep(name string, index int) (*models.Todo, error)
	Delete(name string) error
}

// programRef is a shared reference to the tea.Program for goroutine sends.
// It's set after tea.NewProgram but before p.Run().
type programRef struct {
	mu sync.Mutex
	p  *tea.Program
}

func (r *programRef) Set(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = p
}

func (r *programRef) Send(msg tea.Msg) {
	r.mu.Lock()
	p := r.p
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Clear nils out the program reference, preventing post-exit sends.
func (r *programRef) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.p = nil
}

// Run launches the board for the given store and blocks until the user quits.
func Run(store Store) error {
	ref := &programRef{}
	model := NewModel(store)

	p := tea.NewProgram(model, tea.WithAltScreen())
	ref.Set(p)
	defer ref.Clear()

	// Edits made by toodod or another toodo process show up live.
	w, err := watcher.New(store.Dir())
	if err == nil {
		if startErr := w.Start(); startErr == nil {
			defer w.Stop()
			go forwardEvents(w, ref)
		}
	}

	_, err = p.Run()
	return err
}

func forwardEvents(w *watcher.Watcher, ref *programRef) {
	for {
		select {
		case ev := <-w.Events():
			ref.Send(TodosChangedMsg{Key: ev.Key})
		case <-w.Done():
			return
		}
	}
}
