package models

import (
	"path/filepath"
	"time"
)

// TodoResult is the todo content of one session file.
// FileName and Mtime are nil when no file is selected or it is missing.
type TodoResult struct {
	Todos    []TodoItem `json:"todos"`
	FileName *string    `json:"fileName"`
	Mtime    *string    `json:"mtime"`
}

// EmptyTodoResult returns the result used for a missing or unselected file
func EmptyTodoResult() TodoResult {
	return TodoResult{Todos: []TodoItem{}}
}

// NewTodoResult builds a result for a file that exists on disk
func NewTodoResult(path string, modTime time.Time, todos []TodoItem) TodoResult {
	if todos == nil {
		todos = []TodoItem{}
	}
	name := filepath.Base(path)
	mtime := FormatMtime(modTime)
	return TodoResult{
		Todos:    todos,
		FileName: &name,
		Mtime:    &mtime,
	}
}

// FormatMtime renders a modification time as an ISO 8601 UTC string with
// millisecond precision.
func FormatMtime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
