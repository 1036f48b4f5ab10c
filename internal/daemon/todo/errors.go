package todo

import "errors"

// Errors returned by Manager operations. They are wrapped with the todo name
// or index, so compare with errors.Is.
var (
	ErrNotFound       = errors.New("todo not found")
	ErrExpired        = errors.New("todo has expired and been deleted")
	ErrStepOutOfRange = errors.New("step index out of range")
	ErrInvalidName    = errors.New("todo name must not be empty")
)
