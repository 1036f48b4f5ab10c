// Package watcher watches the todos directory for changes made by other
// processes, such as the toodo CLI editing files while the daemon runs.
package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/toodo-app/toodo/internal/config"
	"github.com/toodo-app/toodo/internal/log"
)

// EventType represents the type of file system event.
type EventType int

// Event types for todo file changes.
const (
	EventTodoChanged EventType = iota
	EventTodoRemoved
)

// DebounceDelay is how long a path must stay quiet before its event fires.
const DebounceDelay = 100 * time.Millisecond

// Event represents a todo file change.
type Event struct {
	Type EventType
	Key  string // sanitized todo name
	Path string
}

// Watcher watches one todos directory.
type Watcher struct {
	dir        string
	fsWatcher  *fsnotify.Watcher
	eventsChan chan Event
	done       chan struct{}
	stopOnce   sync.Once
	debounce   map[string]*time.Timer
	debounceMu sync.Mutex
	logger     zerolog.Logger
}

// New creates a new watcher for dir.
func New(dir string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		dir:        dir,
		fsWatcher:  fsWatcher,
		eventsChan: make(chan Event, 100),
		done:       make(chan struct{}),
		debounce:   make(map[string]*time.Timer),
		logger:     log.Component("watcher"),
	}

	return w, nil
}

// Events returns the channel for receiving events. It is never closed;
// consumers stop reading when Done is closed.
func (w *Watcher) Events() <-chan Event {
	return w.eventsChan
}

// Done is closed once Stop has been called.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Start creates the todos directory if needed and starts watching it.
func (w *Watcher) Start() error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return err
	}

	w.logger.Debug().Str("dir", w.dir).Msg("watching todos")

	// Start processing events
	go w.processEvents()

	return nil
}

// Stop stops the watcher. Pending debounced events are dropped.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()

		w.debounceMu.Lock()
		for path, timer := range w.debounce {
			timer.Stop()
			delete(w.debounce, path)
		}
		w.debounceMu.Unlock()
	})
}

// processEvents processes file system events.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

// handleEvent processes a single file system event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Temp files from atomic writes are hidden and skipped here; the rename
	// onto the real file arrives as a Create on the target.
	if !config.IsTodoFile(filepath.Base(event.Name)) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	// Debounce events
	w.debounceEvent(event.Name, func() {
		w.processFileChange(event.Name)
	})
}

// debounceEvent debounces events for the same path.
func (w *Watcher) debounceEvent(path string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	// Cancel existing timer
	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}

	// Create new timer
	w.debounce[path] = time.AfterFunc(DebounceDelay, func() {
		w.debounceMu.Lock()
		delete(w.debounce, path)
		w.debounceMu.Unlock()
		fn()
	})
}

// processFileChange classifies a debounced change by whether the file still
// exists once things have settled.
func (w *Watcher) processFileChange(path string) {
	eventType := EventTodoChanged
	if !config.FileExists(path) {
		eventType = EventTodoRemoved
	}

	w.logger.Debug().Str("path", path).Int("type", int(eventType)).Msg("todo file changed")

	select {
	case w.eventsChan <- Event{Type: eventType, Key: config.TodoKey(path), Path: path}:
	case <-w.done:
	}
}
