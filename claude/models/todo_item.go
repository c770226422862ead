package models

import (
	"bytes"
	"encoding/json"
)

// Todo statuses written by Claude Code's TodoWrite tool
const (
	TodoStatusPending    = "pending"
	TodoStatusInProgress = "in_progress"
	TodoStatusCompleted  = "completed"
)

// TodoItem represents a task in a Claude Code todo file.
// Only Content and Status are consumed; the original object is kept
// verbatim in Raw so unknown fields reach the presentation layer intact.
type TodoItem struct {
	Raw        json.RawMessage `json:"-"`
	Content    string          `json:"content"`
	Status     string          `json:"status"`               // "pending", "in_progress", "completed"
	ActiveForm string          `json:"activeForm,omitempty"` // Present continuous form (e.g., "Running tests")
}

// UnmarshalJSON accepts any JSON value. Objects populate the known string
// fields when they have the right type; anything else leaves them empty.
func (t *TodoItem) UnmarshalJSON(data []byte) error {
	*t = TodoItem{}
	t.Raw = append(json.RawMessage(nil), bytes.TrimSpace(data)...)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		// Not an object: keep the raw value, expose no fields
		return nil
	}

	t.Content = stringField(fields, "content")
	t.Status = stringField(fields, "status")
	t.ActiveForm = stringField(fields, "activeForm")
	return nil
}

func (t TodoItem) MarshalJSON() ([]byte, error) {
	if len(t.Raw) > 0 {
		return t.Raw, nil
	}
	type Alias TodoItem
	return json.Marshal(Alias(t))
}

// IsInProgress reports whether the item is the one currently being worked on
func (t TodoItem) IsInProgress() bool {
	return t.Status == TodoStatusInProgress
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
