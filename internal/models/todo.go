package models

import "time"

// Step is one checklist line of a todo. It has no identity beyond its
// position in the owning todo's step list.
type Step struct {
	Description string
	Completed   bool
}

// Todo is a named checklist with a time-to-live.
// This corresponds to a markdown file in ~/.config/todos/.
type Todo struct {
	Name          string
	Key           string // sanitized file key; derived from the file name, never stored in it
	Steps         []Step
	CreatedAt     time.Time
	LastUpdatedAt time.Time
	ExpiresAt     time.Time
}

// NewTodo creates an empty todo created at now that expires after ttl.
// Timestamps are kept at millisecond precision, which is what the file format stores.
func NewTodo(name string, now time.Time, ttl time.Duration) *Todo {
	now = Millis(now)
	return &Todo{
		Name:          name,
		Steps:         []Step{},
		CreatedAt:     now,
		LastUpdatedAt: now,
		ExpiresAt:     Millis(now.Add(ttl)),
	}
}

// IsExpired reports whether now is past the todo's expiry.
func (t *Todo) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// CompletedCount returns the number of completed steps.
func (t *Todo) CompletedCount() int {
	n := 0
	for _, s := range t.Steps {
		if s.Completed {
			n++
		}
	}
	return n
}

// Touch bumps LastUpdatedAt. The new value is always strictly later than the
// previous one, even when two mutations land in the same millisecond.
func (t *Todo) Touch(now time.Time) {
	now = Millis(now)
	if !now.After(t.LastUpdatedAt) {
		now = t.LastUpdatedAt.Add(time.Millisecond)
	}
	t.LastUpdatedAt = now
}

// Millis truncates t to millisecond precision.
func Millis(t time.Time) time.Time {
	return time.UnixMilli(t.UnixMilli())
}
