package tray

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/toodo-app/toodo/internal/log"
	"github.com/toodo-app/toodo/internal/models"
)

const (
	// maxStepsPerTodo caps the step lines drawn for one todo.
	maxStepsPerTodo = 10

	// MaxVisibleTodos caps how many todos the menu can hold.
	MaxVisibleTodos = 5

	separatorTitle = "──────────"
)

// Store is the part of the todo manager the presenter depends on.
type Store interface {
	List() ([]*models.Todo, error)
	DeleteMany(names []string) (int, error)
	Subscribe(fn func()) func()
}

// Presenter keeps the tray menu in sync with the todo store. Each render
// re-lists todos from scratch, so a render that is dropped because another
// one is in flight loses nothing the next change will not redraw.
type Presenter struct {
	store    Store
	factory  SurfaceFactory
	maxTodos int
	logger   zerolog.Logger

	updating atomic.Bool

	mu          sync.Mutex // guards surface, visible and unsubscribe
	surface     Surface
	visible     []string
	unsubscribe func()
}

// PresenterOption configures a Presenter.
type PresenterOption func(*Presenter)

// WithMaxTodos sets how many todos the menu shows (clamped to 1..MaxVisibleTodos).
func WithMaxTodos(n int) PresenterOption {
	return func(p *Presenter) {
		switch {
		case n < 1:
			p.maxTodos = models.DefaultTrayTodos
		case n > MaxVisibleTodos:
			p.maxTodos = MaxVisibleTodos
		default:
			p.maxTodos = n
		}
	}
}

// WithLogger replaces the component logger.
func WithLogger(logger zerolog.Logger) PresenterOption {
	return func(p *Presenter) {
		p.logger = logger
	}
}

// NewPresenter creates a presenter. No surface is created until there is
// something to show.
func NewPresenter(store Store, factory SurfaceFactory, opts ...PresenterOption) *Presenter {
	p := &Presenter{
		store:    store,
		factory:  factory,
		maxTodos: models.DefaultTrayTodos,
		logger:   log.Component("tray"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start subscribes to store changes and draws the initial menu.
func (p *Presenter) Start() {
	unsubscribe := p.store.Subscribe(func() {
		go p.Refresh()
	})

	p.mu.Lock()
	p.unsubscribe = unsubscribe
	p.mu.Unlock()

	p.Refresh()
}

// Stop unsubscribes from the store and releases the surface.
func (p *Presenter) Stop() {
	p.mu.Lock()
	unsubscribe := p.unsubscribe
	p.unsubscribe = nil
	p.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	p.Cleanup()
}

// Refresh re-renders the menu. If a render is already in flight the call is
// dropped and Refresh returns false. Render failures are logged, never returned.
func (p *Presenter) Refresh() bool {
	if !p.updating.CompareAndSwap(false, true) {
		p.logger.Debug().Msg("render already in flight, dropping refresh")
		return false
	}
	defer p.updating.Store(false)

	if err := p.render(); err != nil {
		p.logger.Error().Err(err).Msg("failed to update tray")
	}
	return true
}

// Visible returns the file keys of the todos currently drawn in the menu.
func (p *Presenter) Visible() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.visible...)
}

func (p *Presenter) render() error {
	todos, err := p.store.List()
	if err != nil {
		return fmt.Errorf("failed to list todos: %w", err)
	}
	p.logger.Debug().Int("todos", len(todos)).Msg("rendering tray")

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(todos) == 0 {
		p.visible = nil
		if p.surface != nil {
			p.logger.Debug().Msg("no todos, hiding tray")
			return p.surface.Hide()
		}
		return nil
	}

	top := todos
	if len(top) > p.maxTodos {
		top = top[:p.maxTodos]
	}

	if p.surface == nil {
		s, err := p.factory()
		if err != nil {
			return fmt.Errorf("failed to create tray surface: %w", err)
		}
		p.surface = s
	}
	s := p.surface

	if err := s.Show(); err != nil {
		return err
	}
	if err := s.ClearItems(); err != nil {
		// A stale menu is better than no menu; keep drawing.
		p.logger.Warn().Err(err).Msg("failed to reset menu")
	}

	if err := s.SetIcon(Icon{
		Title:   fmt.Sprintf("Toodo (%d)", len(todos)),
		Tooltip: formatTooltip(len(todos)),
	}); err != nil {
		return err
	}

	visible := make([]string, 0, len(top))
	for _, t := range top {
		visible = append(visible, t.Key)
	}
	p.visible = visible

	return p.populate(s, top)
}

func (p *Presenter) populate(s Surface, todos []*models.Todo) error {
	for i, t := range todos {
		if err := s.AddText(Text{Title: formatTodoTitle(t)}); err != nil {
			return err
		}
		for _, line := range formatStepLines(t) {
			if err := s.AddText(Text{Title: line}); err != nil {
				return err
			}
		}
		if i < len(todos)-1 {
			if err := s.AddText(Text{Title: separatorTitle, Separator: true}); err != nil {
				return err
			}
		}
	}

	if err := s.AddText(Text{Title: separatorTitle, Separator: true}); err != nil {
		return err
	}

	actions := []Action{
		{Title: "Refresh", Tooltip: "Reload todos", OnClick: p.onRefresh},
		{Title: "Clear", Tooltip: "Delete the todos shown above", OnClick: p.onClear},
		{Title: "Hide", Tooltip: "Hide the tray icon", OnClick: p.onHide},
	}
	for _, a := range actions {
		if err := s.AddAction(a); err != nil {
			return err
		}
	}
	return nil
}

func (p *Presenter) onRefresh() {
	p.logger.Info().Msg("refresh clicked")
	p.Refresh()
}

func (p *Presenter) onClear() {
	p.logger.Info().Msg("clear clicked")
	n, err := p.store.DeleteMany(p.Visible())
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to clear visible todos")
	}
	p.logger.Debug().Int("deleted", n).Msg("visible todos cleared")
	p.Refresh()
}

func (p *Presenter) onHide() {
	p.logger.Info().Msg("hide clicked")
	p.Cleanup()
}

// Cleanup hides and releases the surface. Safe to call at any time,
// including when no surface exists.
func (p *Presenter) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.surface == nil {
		return
	}
	if err := p.surface.Hide(); err != nil {
		p.logger.Error().Err(err).Msg("failed to hide tray")
	}
	p.surface = nil
	p.visible = nil
}

func formatTooltip(count int) string {
	if count == 1 {
		return "Toodo: 1 active todo"
	}
	return fmt.Sprintf("Toodo: %d active todos", count)
}

func formatTodoTitle(t *models.Todo) string {
	return fmt.Sprintf("%s [%d/%d]", t.Name, t.CompletedCount(), len(t.Steps))
}

func formatStepLines(t *models.Todo) []string {
	if len(t.Steps) == 0 {
		return []string{"  (no steps)"}
	}

	lines := make([]string, 0, min(len(t.Steps), maxStepsPerTodo)+1)
	for i, step := range t.Steps {
		if i == maxStepsPerTodo {
			lines = append(lines, fmt.Sprintf("  … %d more", len(t.Steps)-maxStepsPerTodo))
			break
		}
		marker := "[ ]"
		if step.Completed {
			marker = "[✓]"
		}
		lines = append(lines, fmt.Sprintf("  %s %s", marker, step.Description))
	}
	return lines
}
