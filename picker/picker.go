// Package picker opens native directory and file dialogs.
package picker

import (
	"context"
	"errors"
)

// ErrCancelled is returned when the user dismisses a dialog
var ErrCancelled = errors.New("selection cancelled")

// Filter restricts a file dialog to matching names
type Filter struct {
	Name     string
	Patterns []string // glob patterns, e.g. "*.mp3"
}

// AudioFilter matches the sound formats the notifier can play
var AudioFilter = Filter{
	Name:     "Audio",
	Patterns: []string{"*.mp3", "*.wav", "*.ogg", "*.m4a", "*.aac"},
}

// Picker shows selection dialogs. Both methods block until the user
// answers or ctx is done.
type Picker interface {
	SelectDirectory(ctx context.Context, defaultPath string) (string, error)
	SelectFile(ctx context.Context, title string, filter Filter) (string, error)
}
