package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/log"
)

// watchHandle is a single fsnotify subscription on one directory.
// Closing it stops the event loop; no events are delivered afterwards.
type watchHandle struct {
	dir       string
	watcher   *fsnotify.Watcher
	onEvent   func(name string, op fsnotify.Op)
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// openWatch subscribes to changes in dir. onEvent receives the base name
// of the changed entry and must not block on anything that calls Close.
func openWatch(dir string, onEvent func(name string, op fsnotify.Op)) (*watchHandle, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	h := &watchHandle{
		dir:     dir,
		watcher: w,
		onEvent: onEvent,
	}
	h.wg.Add(1)
	go h.eventLoop()

	log.Debug().Str("dir", dir).Msg("watch handle opened")
	return h, nil
}

// eventLoop forwards fsnotify events until the watcher is closed
func (h *watchHandle) eventLoop() {
	defer h.wg.Done()

	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			h.onEvent(filepath.Base(event.Name), event.Op)

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Str("dir", h.dir).Msg("watcher error")
		}
	}
}

// Close releases the native watch and waits for the event loop to exit.
// Safe to call more than once.
func (h *watchHandle) Close() {
	h.closeOnce.Do(func() {
		if err := h.watcher.Close(); err != nil {
			log.Warn().Err(err).Str("dir", h.dir).Msg("failed to close watcher")
		}
		h.wg.Wait()
		log.Debug().Str("dir", h.dir).Msg("watch handle closed")
	})
}
