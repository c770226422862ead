package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port int
	Host string
	Env  string // "development" or "production"

	// Logging
	LogLevel string

	// Claude directories (read-only, externally owned)
	ClaudeDir   string
	ProjectsDir string
	TodosDir    string // Default watched directory

	// Session list policy
	StaleAfter time.Duration

	// Watcher
	WatchDebounce time.Duration
}

var (
	cfg  *Config
	once sync.Once
)

// Get returns the global configuration (singleton)
func Get() *Config {
	once.Do(func() {
		cfg = load()
	})
	return cfg
}

// load reads configuration from environment variables
func load() *Config {
	claudeDir := DefaultClaudeDir()

	return &Config{
		// Server
		Port: getEnvInt("PORT", 12355),
		Host: getEnv("HOST", "127.0.0.1"),
		Env:  getEnv("ENV", "development"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Claude
		ClaudeDir:   claudeDir,
		ProjectsDir: ExpandPath(getEnv("PROJECTS_DIR", filepath.Join(claudeDir, "projects"))),
		TodosDir:    ExpandPath(getEnv("TODOS_DIR", filepath.Join(claudeDir, "todos"))),

		StaleAfter:    getEnvDuration("STALE_AFTER", time.Hour),
		WatchDebounce: getEnvDuration("WATCH_DEBOUNCE", 100*time.Millisecond),
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

// SetClaudeDir points the projects and todos directories at a new Claude
// config directory. Explicit overrides should be applied afterwards.
func (c *Config) SetClaudeDir(dir string) {
	c.ClaudeDir = ExpandPath(dir)
	c.ProjectsDir = filepath.Join(c.ClaudeDir, "projects")
	c.TodosDir = filepath.Join(c.ClaudeDir, "todos")
}

// DefaultClaudeDir returns the Claude config directory.
// Checks CLAUDE_CONFIG_DIR first, then falls back to ~/.claude
func DefaultClaudeDir() string {
	if envDir := os.Getenv("CLAUDE_CONFIG_DIR"); envDir != "" {
		return ExpandPath(envDir)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".claude")
	}
	return filepath.Join(homeDir, ".claude")
}

// ExpandPath expands a leading ~ to the user's home directory
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return homeDir
	}
	return filepath.Join(homeDir, path[2:])
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d >= 0 {
			return d
		}
	}
	return defaultValue
}
