package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/config"
)

func newTestConfig(t *testing.T, env string) *Config {
	t.Helper()
	root := t.TempDir()
	projectDir := filepath.Join(root, "projects", "-home-me-api")
	require.NoError(t, os.MkdirAll(projectDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(projectDir, "0f8e7a1c-2b3d-4e5f-8a9b-0c1d2e3f4a5b.jsonl"), nil, 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "todos"), 0o755))

	return &Config{
		Env:           env,
		ProjectsDir:   filepath.Join(root, "projects"),
		TodosDir:      filepath.Join(root, "todos"),
		StaleAfter:    time.Hour,
		WatchDebounce: 10 * time.Millisecond,
	}
}

func TestNew_WiresComponents(t *testing.T) {
	cfg := newTestConfig(t, "production")
	srv := New(cfg)
	srv.StartServices()
	defer srv.Shutdown(context.Background())

	assert.Equal(t, 1, srv.Projects().Len(), "index is built on construction")
	assert.Equal(t, cfg.TodosDir, srv.FS().CurrentDir())
	assert.True(t, srv.FS().Status().Watching)
	assert.NotNil(t, srv.Picker())
}

func TestShutdown_ClosesSubscribers(t *testing.T) {
	srv := New(newTestConfig(t, "production"))
	srv.StartServices()

	events, _ := srv.Notifications().Subscribe()
	require.NoError(t, srv.Shutdown(context.Background()))

	_, ok := <-events
	assert.False(t, ok)
	assert.Error(t, srv.ShutdownContext().Err())
	assert.False(t, srv.FS().Status().Watching)
}

func TestCORS_DevelopmentOnly(t *testing.T) {
	preflight := func(srv *Server) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/sessions", nil)
		req.Host = "localhost:12355"
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)
		return w
	}

	dev := New(newTestConfig(t, "development"))
	w := preflight(dev)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	prod := New(newTestConfig(t, "production"))
	w = preflight(prod)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestFromAppConfig(t *testing.T) {
	app := &config.Config{
		Port:          9000,
		Host:          "0.0.0.0",
		Env:           "production",
		ProjectsDir:   "/c/projects",
		TodosDir:      "/c/todos",
		StaleAfter:    2 * time.Hour,
		WatchDebounce: 0,
	}

	cfg := FromAppConfig(app)
	assert.Equal(t, 9000, cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "/c/todos", cfg.ToFSConfig().DefaultDir)
	assert.Zero(t, cfg.ToFSConfig().DebounceDelay)
	assert.Len(t, cfg.ListerOptions(), 1)
}
