package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "HOST", "ENV", "LOG_LEVEL", "TODOS_DIR", "PROJECTS_DIR", "STALE_AFTER", "WATCH_DEBOUNCE"} {
		t.Setenv(key, "")
	}
	claudeDir := t.TempDir()
	t.Setenv("CLAUDE_CONFIG_DIR", claudeDir)

	c := load()

	assert.Equal(t, 12355, c.Port)
	assert.Equal(t, "127.0.0.1", c.Host)
	assert.True(t, c.IsDevelopment())
	assert.Equal(t, claudeDir, c.ClaudeDir)
	assert.Equal(t, filepath.Join(claudeDir, "projects"), c.ProjectsDir)
	assert.Equal(t, filepath.Join(claudeDir, "todos"), c.TodosDir)
	assert.Equal(t, time.Hour, c.StaleAfter)
	assert.Equal(t, 100*time.Millisecond, c.WatchDebounce)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("TODOS_DIR", "/tmp/todos")
	t.Setenv("STALE_AFTER", "30m")
	t.Setenv("WATCH_DEBOUNCE", "not-a-duration")

	c := load()

	assert.Equal(t, 9000, c.Port)
	assert.False(t, c.IsDevelopment())
	assert.Equal(t, "/tmp/todos", c.TodosDir)
	assert.Equal(t, 30*time.Minute, c.StaleAfter)
	assert.Equal(t, 100*time.Millisecond, c.WatchDebounce, "invalid durations fall back to the default")
}

func TestSetClaudeDir(t *testing.T) {
	c := &Config{}
	c.SetClaudeDir("/data/claude")

	assert.Equal(t, "/data/claude/projects", c.ProjectsDir)
	assert.Equal(t, "/data/claude/todos", c.TodosDir)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, ".claude"), ExpandPath("~/.claude"))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
	assert.Equal(t, "~user/x", ExpandPath("~user/x"))
}
