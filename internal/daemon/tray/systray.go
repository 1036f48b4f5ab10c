package tray

import (
	_ "embed"
	"errors"
	"sync"

	"github.com/getlantern/systray"
)

// maxSlots is the number of pre-allocated menu items. systray cannot remove
// items, so the menu is drawn into hidden slots that are reused on every render.
const maxSlots = 96

// ErrMenuFull is returned when a render needs more lines than there are slots.
var ErrMenuFull = errors.New("tray menu is full")

var (
	//go:embed assets/icon.png
	iconData []byte

	//go:embed assets/blank.png
	blankIconData []byte
)

// Run starts the system tray. This blocks the calling goroutine (must be main).
// onStartFn is called when the tray is ready (start serving here).
// onExitFn is called when the tray exits (cleanup here).
func Run(onStartFn, onExitFn func()) {
	systray.Run(onStartFn, onExitFn)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

// SystraySurface draws the menu into the process-wide systray menu.
type SystraySurface struct {
	mu       sync.Mutex
	slots    [maxSlots]*systray.MenuItem
	handlers [maxSlots]func()
	used     int
}

// SystrayFactory returns a factory handing out the single systray surface.
// The menu slots are allocated on first use, so it must only be called after
// the tray is ready.
func SystrayFactory() SurfaceFactory {
	var (
		once    sync.Once
		surface *SystraySurface
	)
	return func() (Surface, error) {
		once.Do(func() {
			surface = newSystraySurface()
		})
		return surface, nil
	}
}

func newSystraySurface() *SystraySurface {
	s := &SystraySurface{}

	systray.SetTemplateIcon(blankIconData, blankIconData)

	// Pre-allocate menu slots (hidden by default)
	for i := 0; i < maxSlots; i++ {
		s.slots[i] = systray.AddMenuItem("", "")
		s.slots[i].Hide()
	}

	for i := 0; i < maxSlots; i++ {
		go s.handleClicks(i)
	}
	return s
}

func (s *SystraySurface) handleClicks(slot int) {
	for range s.slots[slot].ClickedCh {
		s.mu.Lock()
		fn := s.handlers[slot]
		s.mu.Unlock()

		if fn != nil {
			fn()
		}
	}
}

// Show displays the tray icon.
func (s *SystraySurface) Show() error {
	systray.SetTemplateIcon(iconData, iconData)
	return nil
}

// Hide blanks the icon and hides every menu line.
func (s *SystraySurface) Hide() error {
	if err := s.ClearItems(); err != nil {
		return err
	}
	systray.SetTemplateIcon(blankIconData, blankIconData)
	systray.SetTitle("")
	systray.SetTooltip("")
	return nil
}

// ClearItems hides every menu line and forgets their click handlers.
func (s *SystraySurface) ClearItems() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < s.used; i++ {
		s.slots[i].Hide()
		s.handlers[i] = nil
	}
	s.used = 0
	return nil
}

// SetIcon sets the text shown next to the icon and its tooltip.
func (s *SystraySurface) SetIcon(icon Icon) error {
	systray.SetTitle(icon.Title)
	systray.SetTooltip(icon.Tooltip)
	return nil
}

// AddText appends a disabled menu line.
func (s *SystraySurface) AddText(text Text) error {
	item, err := s.next(nil)
	if err != nil {
		return err
	}
	item.SetTitle(text.Title)
	item.SetTooltip("")
	item.Disable()
	item.Show()
	return nil
}

// AddAction appends a clickable menu line.
func (s *SystraySurface) AddAction(action Action) error {
	item, err := s.next(action.OnClick)
	if err != nil {
		return err
	}
	item.SetTitle(action.Title)
	item.SetTooltip(action.Tooltip)
	item.Enable()
	item.Show()
	return nil
}

func (s *SystraySurface) next(onClick func()) (*systray.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.used >= maxSlots {
		return nil, ErrMenuFull
	}
	item := s.slots[s.used]
	s.handlers[s.used] = onClick
	s.used++
	return item, nil
}
