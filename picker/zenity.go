package picker

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncruces/zenity"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/log"
)

// Native shows the platform's own dialogs
type Native struct{}

// NewNative creates a native picker
func NewNative() *Native {
	return &Native{}
}

// SelectDirectory asks for a directory, starting at defaultPath
func (Native) SelectDirectory(ctx context.Context, defaultPath string) (string, error) {
	opts := []zenity.Option{
		zenity.Directory(),
		zenity.Title("Select todos directory"),
		zenity.Context(ctx),
	}
	if defaultPath != "" {
		opts = append(opts, zenity.Filename(defaultPath))
	}

	dir, err := zenity.SelectFile(opts...)
	return result(dir, err, "directory")
}

// SelectFile asks for a single file matching filter
func (Native) SelectFile(ctx context.Context, title string, filter Filter) (string, error) {
	opts := []zenity.Option{
		zenity.Title(title),
		zenity.Context(ctx),
	}
	if len(filter.Patterns) > 0 {
		opts = append(opts, zenity.FileFilters{{
			Name:     filter.Name,
			Patterns: filter.Patterns,
			CaseFold: true,
		}})
	}

	file, err := zenity.SelectFile(opts...)
	return result(file, err, "file")
}

func result(path string, err error, kind string) (string, error) {
	if errors.Is(err, zenity.ErrCanceled) {
		log.Debug().Str("kind", kind).Msg("selection cancelled")
		return "", ErrCancelled
	}
	if err != nil {
		return "", fmt.Errorf("select %s: %w", kind, err)
	}
	if path == "" {
		return "", ErrCancelled
	}
	return path, nil
}
