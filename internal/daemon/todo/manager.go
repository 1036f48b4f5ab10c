// Package todo handles todo management for the daemon.
//
// Every operation reads its todo file from disk and, for mutations, writes it
// back; nothing is cached between calls. Concurrent mutations of the same
// todo are not coordinated.
package todo

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/toodo-app/toodo/internal/config"
	"github.com/toodo-app/toodo/internal/log"
	"github.com/toodo-app/toodo/internal/models"
)

// Manager handles todo operations against one directory of todo files.
type Manager struct {
	dir string
	ttl time.Duration
	now func() time.Time

	subMu       sync.RWMutex
	subscribers map[int]func()
	nextSubID   int
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a todo manager storing files in dir. New todos expire
// after ttl.
func NewManager(dir string, ttl time.Duration, opts ...Option) *Manager {
	if ttl <= 0 {
		ttl = models.DefaultExpirationSeconds * time.Second
	}
	m := &Manager{
		dir:         dir,
		ttl:         ttl,
		now:         time.Now,
		subscribers: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the directory holding the todo files.
func (m *Manager) Dir() string {
	return m.dir
}

// TTL returns the lifetime given to new todos.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Subscribe registers fn to be called after every successful mutation.
// Callbacks run synchronously on the mutating goroutine. The returned
// function removes the subscription.
func (m *Manager) Subscribe(fn func()) func() {
	m.subMu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	m.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subMu.Lock()
			delete(m.subscribers, id)
			m.subMu.Unlock()
		})
	}
}

func (m *Manager) notify() {
	m.subMu.RLock()
	fns := make([]func(), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		fns = append(fns, fn)
	}
	m.subMu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

func (m *Manager) path(name string) string {
	return config.TodoFile(m.dir, name)
}

// Create writes a new, empty todo. An existing todo stored under the same
// file key is overwritten.
func (m *Manager) Create(name string) (*models.Todo, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}

	todo := models.NewTodo(config.SingleLine(name), m.now(), m.ttl)
	todo.Key = config.SanitizeName(name)
	if err := config.SaveTodo(m.path(name), todo); err != nil {
		return nil, err
	}

	log.Debug().Str("todo", name).Time("expires_at", todo.ExpiresAt).Msg("todo created")
	m.notify()
	return todo, nil
}

// Get retrieves a todo by name. It returns nil, nil when no such todo exists.
// A todo past its expiry is deleted and ErrExpired is returned.
func (m *Manager) Get(name string) (*models.Todo, error) {
	path := m.path(name)
	now := m.now()

	todo, err := config.LoadTodo(path, name, now, m.ttl)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, nil
	}
	todo.Key = config.SanitizeName(name)

	if todo.IsExpired(now) {
		if err := config.DeleteTodoFile(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		log.Debug().Str("todo", name).Msg("expired todo evicted")
		return nil, fmt.Errorf("%w: %s", ErrExpired, name)
	}

	return todo, nil
}

// load fetches a todo that must exist.
func (m *Manager) load(name string) (*models.Todo, error) {
	todo, err := m.Get(name)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return todo, nil
}

// save bumps LastUpdatedAt, writes the todo and notifies subscribers.
func (m *Manager) save(name string, todo *models.Todo) error {
	todo.Touch(m.now())
	if err := config.SaveTodo(m.path(name), todo); err != nil {
		return err
	}
	m.notify()
	return nil
}

func checkIndex(todo *models.Todo, index int) error {
	if index < 0 || index >= len(todo.Steps) {
		return fmt.Errorf("%w: %d (todo '%s' has %d steps)", ErrStepOutOfRange, index, todo.Name, len(todo.Steps))
	}
	return nil
}

// AddStep appends an open step to a todo.
func (m *Manager) AddStep(name, description string) (*models.Todo, error) {
	todo, err := m.load(name)
	if err != nil {
		return nil, err
	}

	todo.Steps = append(todo.Steps, models.Step{
		Description: strings.TrimSpace(config.SingleLine(description)),
	})

	if err := m.save(name, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// CompleteStep marks the step at index as completed.
func (m *Manager) CompleteStep(name string, index int) (*models.Todo, error) {
	todo, err := m.load(name)
	if err != nil {
		return nil, err
	}
	if err := checkIndex(todo, index); err != nil {
		return nil, err
	}

	todo.Steps[index].Completed = true

	if err := m.save(name, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// DeleteStep removes the step at index. Later steps shift down by one.
func (m *Manager) DeleteStep(name string, index int) (*models.Todo, error) {
	todo, err := m.load(name)
	if err != nil {
		return nil, err
	}
	if err := checkIndex(todo, index); err != nil {
		return nil, err
	}

	todo.Steps = append(todo.Steps[:index], todo.Steps[index+1:]...)

	if err := m.save(name, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// List returns all unexpired todos, most recently updated first.
// Unreadable files are skipped. Expired todos are filtered out but, unlike
// Get, left on disk.
func (m *Manager) List() ([]*models.Todo, error) {
	paths, err := config.ListTodoFiles(m.dir)
	if err != nil {
		return nil, err
	}

	now := m.now()
	todos := make([]*models.Todo, 0, len(paths))
	for _, path := range paths {
		todo, err := config.LoadTodo(path, config.TodoKey(path), now, m.ttl)
		if err != nil {
			log.Debug().Err(err).Str("path", path).Msg("skipping unreadable todo")
			continue
		}
		if todo == nil || todo.IsExpired(now) {
			continue
		}
		todo.Key = config.TodoKey(path)
		todos = append(todos, todo)
	}

	sort.SliceStable(todos, func(i, j int) bool {
		return todos[i].LastUpdatedAt.After(todos[j].LastUpdatedAt)
	})

	return todos, nil
}

// Delete permanently deletes a todo.
func (m *Manager) Delete(name string) error {
	if err := config.DeleteTodoFile(m.path(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return err
	}

	log.Debug().Str("todo", name).Msg("todo deleted")
	m.notify()
	return nil
}

// DeleteMany deletes every listed todo (by name or file key) that exists, notifying subscribers
// once at the end. Missing todos are skipped. It returns how many were
// deleted and the first I/O error, if any.
func (m *Manager) DeleteMany(names []string) (int, error) {
	var firstErr error
	deleted := 0
	for _, name := range names {
		err := config.DeleteTodoFile(m.path(name))
		switch {
		case err == nil:
			deleted++
		case errors.Is(err, fs.ErrNotExist):
		case firstErr == nil:
			firstErr = err
		}
	}

	if deleted > 0 {
		m.notify()
	}
	return deleted, firstErr
}
