package claude

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rivo/uniseg"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/claude/models"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/log"
)

// PreviewLength is the maximum number of characters in a session preview
const PreviewLength = 50

// DefaultStaleAfter hides sessions whose todo file has not changed for an hour
const DefaultStaleAfter = time.Hour

// Resolver maps a todo file name to the project it belongs to
type Resolver interface {
	Resolve(sessionFileName string) (models.ProjectRecord, bool)
}

// Lister scans a todos directory and builds the visible session list
type Lister struct {
	resolver   Resolver
	staleAfter time.Duration
	now        func() time.Time
}

// ListerOption configures a Lister
type ListerOption func(*Lister)

// WithStaleAfter sets how old a todo file may be before it is hidden
func WithStaleAfter(d time.Duration) ListerOption {
	return func(l *Lister) {
		if d > 0 {
			l.staleAfter = d
		}
	}
}

// WithClock overrides the time source used for the staleness check
func WithClock(now func() time.Time) ListerOption {
	return func(l *Lister) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLister creates a Lister. A nil resolver leaves project fields empty.
func NewLister(resolver Resolver, opts ...ListerOption) *Lister {
	l := &Lister{
		resolver:   resolver,
		staleAfter: DefaultStaleAfter,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// List returns the sessions in dir that have todos and were modified within
// the stale window, most recently modified first. An unreadable directory
// yields an empty list.
func (l *Lister) List(dir string) []models.SessionFile {
	files, err := l.scan(dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("failed to read todos directory")
		return []models.SessionFile{}
	}

	cutoff := l.now().Add(-l.staleAfter)
	visible := make([]models.SessionFile, 0, len(files))
	for _, f := range files {
		if isVisible(f, cutoff) {
			visible = append(visible, f)
		}
	}

	slices.SortStableFunc(visible, func(a, b models.SessionFile) int {
		return b.Mtime.Compare(a.Mtime)
	})
	return visible
}

// isVisible keeps files with at least one todo modified strictly after cutoff
func isVisible(f models.SessionFile, cutoff time.Time) bool {
	if f.TodoCount == 0 {
		return false
	}
	return f.Mtime.After(cutoff)
}

// scan reads every .json file in dir without filtering
func (l *Lister) scan(dir string) ([]models.SessionFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	files := make([]models.SessionFile, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}

		filePath := filepath.Join(dir, name)
		info, err := os.Stat(filePath)
		if err != nil {
			// Removed between ReadDir and Stat
			log.Debug().Err(err).Str("path", filePath).Msg("skipping vanished todo file")
			continue
		}
		if info.IsDir() {
			continue
		}

		files = append(files, l.describe(filePath, info.ModTime()))
	}
	return files, nil
}

// describe builds the SessionFile for one todo file
func (l *Lister) describe(filePath string, modTime time.Time) models.SessionFile {
	name := filepath.Base(filePath)
	f := models.SessionFile{
		Name:  name,
		Path:  filePath,
		Mtime: modTime,
	}

	if todos, err := readTodoFile(filePath); err == nil {
		f.TodoCount = len(todos)
		f.Preview = truncatePreview(previewOf(todos), PreviewLength)
	}

	if l.resolver != nil {
		if project, ok := l.resolver.Resolve(name); ok {
			f.SetProject(project)
		}
	}
	return f
}

// previewOf picks the content of the first in-progress todo, falling back
// to the first todo
func previewOf(todos []models.TodoItem) string {
	if len(todos) == 0 {
		return ""
	}
	for _, t := range todos {
		if t.IsInProgress() {
			return t.Content
		}
	}
	return todos[0].Content
}

// truncatePreview cuts s to at most limit user-perceived characters
func truncatePreview(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	rest := s
	state := -1
	for n := 0; n < limit && rest != ""; n++ {
		_, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
	}
	return s[:len(s)-len(rest)]
}
