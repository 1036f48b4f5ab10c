package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/toodo-app/toodo/internal/models"
)

// timeLayout is how timestamps are shown to the agent (local time).
const timeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	return t.Local().Format(timeLayout)
}

func renderTodo(t *models.Todo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", t.Name)
	fmt.Fprintf(&b, "Expires at: %s\n\n", formatTime(t.ExpiresAt))

	if len(t.Steps) == 0 {
		b.WriteString("(No steps yet)")
		return b.String()
	}
	for i, step := range t.Steps {
		status := "[ ]"
		if step.Completed {
			status = "[x]"
		}
		fmt.Fprintf(&b, "%d. %s %s\n", i, status, step.Description)
	}
	return b.String()
}

func renderTodoList(todos []*models.Todo) string {
	if len(todos) == 0 {
		return "No active todos."
	}

	var b strings.Builder
	b.WriteString("# Active todos\n\n")
	for i, t := range todos {
		fmt.Fprintf(&b, "%d. %s [%d/%d]\n", i, t.Name, t.CompletedCount(), len(t.Steps))
		fmt.Fprintf(&b, "   Created: %s\n", formatTime(t.CreatedAt))
		fmt.Fprintf(&b, "   Updated: %s\n", formatTime(t.LastUpdatedAt))
		fmt.Fprintf(&b, "   Expires: %s\n\n", formatTime(t.ExpiresAt))
	}
	return b.String()
}

// capitalize upper-cases the first letter of an error message for display.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
