package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/toodo-app/toodo/internal/models"
)

// LoadTodo loads a todo from its markdown file.
// Returns nil if the file doesn't exist.
func LoadTodo(path, fallbackName string, now time.Time, ttl time.Duration) (*models.Todo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read todo %s: %w", path, err)
	}
	return ParseTodo(data, fallbackName, now, ttl), nil
}

// SaveTodo saves a todo to its markdown file, creating the directory if needed.
func SaveTodo(path string, todo *models.Todo) error {
	data, err := MarshalTodo(todo)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data, 0o644)
}

// DeleteTodoFile deletes a todo file. A missing file is reported as
// fs.ErrNotExist so callers can tell it apart from other failures.
func DeleteTodoFile(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fs.ErrNotExist
		}
		return fmt.Errorf("failed to delete todo %s: %w", path, err)
	}
	return nil
}

// ListTodoFiles returns the paths of all todo files in dir, sorted by name.
// A missing directory yields an empty list.
func ListTodoFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list todos in %s: %w", dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsTodoFile(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
