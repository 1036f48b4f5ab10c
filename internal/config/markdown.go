package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/toodo-app/toodo/internal/models"
)

// Todo file layout:
//
//	<!-- meta: {"expiresAt":<ms>,"createdAt":<ms>,"lastUpdatedAt":<ms>} -->
//	# <name>
//
//	- [x] <completed step>
//	- [ ] <open step>
var (
	metaPattern    = regexp.MustCompile(`^<!-- meta: (.*) -->$`)
	headingPattern = regexp.MustCompile(`^# (.+)$`)
	stepPattern    = regexp.MustCompile(`^\s*- \[(x|X| )\] (.*)$`)
)

// todoMeta is the JSON payload of the meta comment. Timestamps are epoch milliseconds.
type todoMeta struct {
	ExpiresAt     int64 `json:"expiresAt,omitempty"`
	CreatedAt     int64 `json:"createdAt,omitempty"`
	LastUpdatedAt int64 `json:"lastUpdatedAt,omitempty"`
}

// ParseTodo parses a todo file. It never fails: unknown lines are ignored and
// only the first line consisting solely of a meta comment is honoured;
// a missing or malformed meta comment leaves the defaults in place
// (expiresAt = now+ttl, createdAt = lastUpdatedAt = now). The name comes from
// the first "# " heading, or fallbackName when there is none.
func ParseTodo(data []byte, fallbackName string, now time.Time, ttl time.Duration) *models.Todo {
	todo := models.NewTodo(fallbackName, now, ttl)
	named, metaSeen := false, false

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")

		// Steps first: step text may itself contain a meta comment.
		if m := stepPattern.FindStringSubmatch(line); m != nil {
			todo.Steps = append(todo.Steps, models.Step{
				Description: strings.TrimSpace(m[2]),
				Completed:   m[1] != " ",
			})
			continue
		}

		if !metaSeen {
			if m := metaPattern.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
				metaSeen = true
				var meta todoMeta
				if err := json.Unmarshal([]byte(m[1]), &meta); err == nil {
					applyMeta(todo, meta)
				}
				continue
			}
		}

		if !named {
			if m := headingPattern.FindStringSubmatch(line); m != nil {
				if name := strings.TrimSpace(m[1]); name != "" {
					todo.Name = name
					named = true
				}
			}
		}
	}

	return todo
}

func applyMeta(todo *models.Todo, meta todoMeta) {
	if meta.ExpiresAt > 0 {
		todo.ExpiresAt = time.UnixMilli(meta.ExpiresAt)
	}
	if meta.CreatedAt > 0 {
		todo.CreatedAt = time.UnixMilli(meta.CreatedAt)
	}
	if meta.LastUpdatedAt > 0 {
		todo.LastUpdatedAt = time.UnixMilli(meta.LastUpdatedAt)
	}
}

// MarshalTodo renders a todo in the markdown file layout.
func MarshalTodo(todo *models.Todo) ([]byte, error) {
	meta, err := json.Marshal(todoMeta{
		ExpiresAt:     todo.ExpiresAt.UnixMilli(),
		CreatedAt:     todo.CreatedAt.UnixMilli(),
		LastUpdatedAt: todo.LastUpdatedAt.UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal todo meta: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<!-- meta: %s -->\n", meta)
	fmt.Fprintf(&buf, "# %s\n\n", SingleLine(todo.Name))
	for _, step := range todo.Steps {
		check := " "
		if step.Completed {
			check = "x"
		}
		fmt.Fprintf(&buf, "- [%s] %s\n", check, SingleLine(step.Description))
	}
	return buf.Bytes(), nil
}

// SingleLine collapses line breaks into spaces so free text cannot break the
// line-oriented file layout.
func SingleLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
