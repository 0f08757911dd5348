package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ErrCorrupt marks a task file that exists but cannot be decoded. It is a
// recoverable condition: callers log it and continue with an empty list
// rather than taking the service down over bad state on disk.
var ErrCorrupt = errors.New("task file corrupt")

// LoadFile reads an ordered task list from path. A missing file is an empty
// list, not an error. Malformed content returns an empty list alongside an
// error wrapping ErrCorrupt.
func LoadFile(path string) ([]Task, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Task{}, nil
		}
		return nil, err
	}

	var tasks []Task
	if err := json.Unmarshal(b, &tasks); err != nil {
		return []Task{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, filepath.Base(path), err)
	}
	for _, t := range tasks {
		if t.ID == "" || t.Title == "" || t.DueAt.IsZero() {
			return []Task{}, fmt.Errorf("%w: %s: record missing required fields", ErrCorrupt, filepath.Base(path))
		}
	}
	return tasks, nil
}

// SaveFile rewrites path with the full task list. Callers must treat this as
// replacing the entire collection; there is no append mode.
func SaveFile(path string, tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	b, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func sortByDue(tasks []Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].DueAt.Equal(tasks[j].DueAt.Time) {
			return tasks[i].DueAt.Before(tasks[j].DueAt.Time)
		}
		return tasks[i].numericID() < tasks[j].numericID()
	})
}
