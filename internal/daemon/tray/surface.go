// Package tray implements the system tray summary of active todos.
package tray

// Icon is the tray icon and the text shown next to it.
type Icon struct {
	Title   string
	Tooltip string
}

// Text is a non-interactive menu line. Separator lines render as dividers.
type Text struct {
	Title     string
	Separator bool
}

// Action is a clickable menu entry.
type Action struct {
	Title   string
	Tooltip string
	OnClick func()
}

// Surface is a native tray icon with its dropdown menu.
type Surface interface {
	Show() error
	Hide() error
	ClearItems() error
	SetIcon(icon Icon) error
	AddText(text Text) error
	AddAction(action Action) error
}

// SurfaceFactory creates the tray surface on first use.
type SurfaceFactory func() (Surface, error)
