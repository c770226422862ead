package fs

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type opLog struct {
	mu    sync.Mutex
	names []string
}

func (l *opLog) add(name string, _ fsnotify.Op) {
	l.mu.Lock()
	l.names = append(l.names, name)
	l.mu.Unlock()
}

func (l *opLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.names...)
}

func TestOpenWatch_DeliversBaseNames(t *testing.T) {
	dir := t.TempDir()
	events := &opLog{}
	h, err := openWatch(dir, events.add)
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, sessionA), []byte("[]"), 0o644))

	require.Eventually(t, func() bool {
		return len(events.snapshot()) > 0
	}, waitFor, tick)
	assert.Equal(t, sessionA, events.snapshot()[0])
}

func TestOpenWatch_NoEventsAfterClose(t *testing.T) {
	dir := t.TempDir()
	events := &opLog{}
	h, err := openWatch(dir, events.add)
	require.NoError(t, err)
	h.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, sessionA), []byte("[]"), 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, events.snapshot())
}

func TestOpenWatch_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := openWatch(filepath.Join(dir, "missing"), func(string, fsnotify.Op) {})
	assert.ErrorIs(t, err, os.ErrNotExist)

	file := filepath.Join(dir, "file.json")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = openWatch(file, func(string, fsnotify.Op) {})
	assert.ErrorIs(t, err, ErrNotDirectory)
}
