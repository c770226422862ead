package fs

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/claude"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/claude/models"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/log"
)

// Service owns the watched todos directory and the selected session file.
// It keeps exactly one filesystem watch alive, scoped to the watched
// directory, and pushes fresh session lists and todos to its Notifier.
type Service struct {
	cfg      Config
	lister   SessionLister
	readTodo TodoReader
	notifier Notifier

	// mu guards state. All transitions go through the methods below.
	mu    sync.Mutex
	state WatchState

	debouncer  *debouncer
	changeChan chan changeEvent

	// Lifecycle
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewService creates a watch service. A nil notifier discards notifications.
func NewService(cfg Config, lister SessionLister, notifier Notifier) *Service {
	if notifier == nil {
		notifier = noopNotifier{}
	}

	s := &Service{
		cfg:        cfg,
		lister:     lister,
		readTodo:   claude.GetTodos,
		notifier:   notifier,
		changeChan: make(chan changeEvent, changeNotificationBufferSize),
		stopChan:   make(chan struct{}),
	}
	s.debouncer = newDebouncer(cfg.DebounceDelay, s.enqueueChange)
	return s
}

// Start begins watching the default directory
func (s *Service) Start() {
	log.Info().Str("dir", s.cfg.DefaultDir).Msg("starting watch service")

	s.wg.Add(1)
	go s.changeNotificationWorker()

	s.mu.Lock()
	s.startWatchingLocked(s.cfg.DefaultDir)
	s.mu.Unlock()
}

// Stop releases the active watch and waits for the worker to exit
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		log.Info().Msg("stopping watch service")

		s.mu.Lock()
		s.releaseWatchLocked()
		s.mu.Unlock()

		s.debouncer.Stop()
		close(s.stopChan)
		s.wg.Wait()

		log.Info().Msg("watch service stopped")
	})
}

// CurrentDir returns the watched directory
func (s *Service) CurrentDir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.WatchedDir
}

// Status reports the watched directory and whether a watch is live
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		Dir:          s.state.WatchedDir,
		DefaultDir:   s.cfg.DefaultDir,
		Watching:     s.state.handle != nil,
		SelectedFile: s.state.SelectedFile,
	}
}

// Sessions returns the current session list of the watched directory
func (s *Service) Sessions() []models.SessionFile {
	return s.lister.List(s.CurrentDir())
}

// Todos reads path, or the selected file when path is empty
func (s *Service) Todos(path string) models.TodoResult {
	if path == "" {
		s.mu.Lock()
		path = s.state.SelectedFile
		s.mu.Unlock()
	}
	return s.readTodo(path)
}

// SelectSession makes path the selected file and returns its todos
func (s *Service) SelectSession(path string) models.TodoResult {
	s.mu.Lock()
	s.state.SelectedFile = path
	s.mu.Unlock()

	log.Debug().Str("file", path).Msg("session selected")
	return s.readTodo(path)
}

// ChangeDirectory clears the selection and moves the watch to dir
func (s *Service) ChangeDirectory(dir string) (DirectorySnapshot, error) {
	if strings.TrimSpace(dir) == "" {
		return DirectorySnapshot{}, ErrEmptyDirectory
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	s.mu.Lock()
	s.state.SelectedFile = ""
	s.startWatchingLocked(dir)
	s.mu.Unlock()

	s.notifier.NotifyDirectoryChanged(dir)

	return DirectorySnapshot{
		Dir:      dir,
		Sessions: s.lister.List(dir),
	}, nil
}

// Reset moves the watch back to the default directory
func (s *Service) Reset() DirectorySnapshot {
	snapshot, err := s.ChangeDirectory(s.cfg.DefaultDir)
	if err != nil {
		// Only possible with an empty default; report it as-is
		log.Warn().Err(err).Msg("failed to reset to default directory")
		return DirectorySnapshot{Dir: s.cfg.DefaultDir, Sessions: []models.SessionFile{}}
	}
	return snapshot
}

// startWatchingLocked releases the current watch and subscribes to dir.
// On failure the service stays idle on dir; there is no retry.
// Caller holds s.mu.
func (s *Service) startWatchingLocked(dir string) {
	s.releaseWatchLocked()
	s.state.WatchedDir = dir

	handle, err := openWatch(dir, s.onFSEvent)
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("failed to watch directory")
		return
	}
	s.state.handle = handle

	log.Info().Str("dir", dir).Msg("watching directory")
}

// releaseWatchLocked closes the active watch, if any, and drops changes
// still waiting in the debouncer. Caller holds s.mu.
func (s *Service) releaseWatchLocked() {
	if s.state.handle != nil {
		s.state.handle.Close()
		s.state.handle = nil
	}
	s.debouncer.Reset()
}

// onFSEvent runs on the watch handle's goroutine; it must not take s.mu
// because Close waits for that goroutine while holding it.
func (s *Service) onFSEvent(name string, op fsnotify.Op) {
	if !strings.HasSuffix(name, ".json") {
		return
	}
	s.debouncer.Queue(name, eventTypeOf(op))
}

// enqueueChange hands a debounced event to the worker without blocking
func (s *Service) enqueueChange(name string, eventType EventType) {
	select {
	case s.changeChan <- changeEvent{name: name, eventType: eventType}:
	default:
		// The next event rescans everything anyway
		log.Warn().Str("name", name).Msg("change queue full, event dropped")
	}
}

// changeNotificationWorker handles change events one at a time
func (s *Service) changeNotificationWorker() {
	defer s.wg.Done()

	for {
		select {
		case event := <-s.changeChan:
			s.handleChange(event)
		case <-s.stopChan:
			return
		}
	}
}

// handleChange rescans the watched directory and refreshes the selected
// file's todos when the change concerns it
func (s *Service) handleChange(event changeEvent) {
	s.mu.Lock()
	dir := s.state.WatchedDir
	selected := s.state.SelectedFile
	s.mu.Unlock()

	log.Debug().
		Str("name", event.name).
		Str("event", event.eventType.String()).
		Msg("todo file changed")

	s.notifier.NotifySessionsUpdated(dir, s.lister.List(dir))

	if selected != "" && event.name == filepath.Base(selected) {
		s.notifier.NotifyTodosUpdated(s.readTodo(selected))
	}
}
