package claude

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/xiaoyuanzhu-com/claude-todo-viewer/claude/models"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/log"
)

// ErrNotTodoList is returned when a todo file's top-level value is not an array
var ErrNotTodoList = errors.New("todo file is not a JSON array")

// ReadTodoFile returns the todos in path. Unreadable or malformed files
// yield an empty list.
func ReadTodoFile(path string) []models.TodoItem {
	todos, err := readTodoFile(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("todo file unreadable, treating as empty")
		return []models.TodoItem{}
	}
	return todos
}

func readTodoFile(path string) ([]models.TodoItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseTodos(data)
}

// parseTodos decodes a todo file's content
func parseTodos(data []byte) ([]models.TodoItem, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse todo file: %w", err)
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotTodoList
	}

	var todos []models.TodoItem
	if err := json.Unmarshal(raw, &todos); err != nil {
		return nil, fmt.Errorf("parse todo file: %w", err)
	}
	if todos == nil {
		todos = []models.TodoItem{}
	}
	return todos, nil
}

// GetTodos reads the todo file at path. An empty path or a missing file
// returns an empty result with nil file name and mtime.
func GetTodos(path string) models.TodoResult {
	if path == "" {
		return models.EmptyTodoResult()
	}

	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Debug().Err(err).Str("path", path).Msg("failed to stat todo file")
		}
		return models.EmptyTodoResult()
	}

	return models.NewTodoResult(path, info.ModTime(), ReadTodoFile(path))
}
