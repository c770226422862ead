package fs

import (
	"time"

	"github.com/xiaoyuanzhu-com/claude-todo-viewer/claude/models"
)

// Size of the buffered channel between the debouncer and the change worker
const changeNotificationBufferSize = 100

// Config contains configuration for the watch service
type Config struct {
	DefaultDir    string        // Watched on Start and after Reset
	DebounceDelay time.Duration // 0 handles every event immediately
}

// SessionLister builds the visible session list for a directory
type SessionLister interface {
	List(dir string) []models.SessionFile
}

// TodoReader reads the todo content of one session file
type TodoReader func(path string) models.TodoResult

// Notifier receives the push notifications produced by the watch service
type Notifier interface {
	NotifySessionsUpdated(dir string, sessions []models.SessionFile)
	NotifyTodosUpdated(result models.TodoResult)
	NotifyDirectoryChanged(dir string)
}

// WatchState is the mutable state owned by the watch service.
// handle is nil while idle; when set it always watches WatchedDir.
type WatchState struct {
	WatchedDir   string
	SelectedFile string
	handle       *watchHandle
}

// DirectorySnapshot is returned when the watched directory changes
type DirectorySnapshot struct {
	Dir      string               `json:"dir"`
	Sessions []models.SessionFile `json:"sessions"`
}

// Status describes the watch service for diagnostics
type Status struct {
	Dir          string `json:"dir"`
	DefaultDir   string `json:"defaultDir"`
	Watching     bool   `json:"watching"`
	SelectedFile string `json:"selectedFile,omitempty"`
}

// changeEvent is a debounced change waiting for the worker
type changeEvent struct {
	name      string
	eventType EventType
}

// noopNotifier drops every notification
type noopNotifier struct{}

func (noopNotifier) NotifySessionsUpdated(string, []models.SessionFile) {}
func (noopNotifier) NotifyTodosUpdated(models.TodoResult)               {}
func (noopNotifier) NotifyDirectoryChanged(string)                      {}
