package server

import (
	"time"

	"github.com/xiaoyuanzhu-com/claude-todo-viewer/claude"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/config"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/fs"
)

// Config holds server configuration
type Config struct {
	// Server infrastructure (immutable, requires restart)
	Port int
	Host string
	Env  string // "development" or "production"

	// Claude directories
	ProjectsDir string
	TodosDir    string // Watched on start and after a reset

	// Session list and watcher
	StaleAfter    time.Duration
	WatchDebounce time.Duration
}

// FromAppConfig copies the settings the server needs out of the global config
func FromAppConfig(c *config.Config) *Config {
	return &Config{
		Port:          c.Port,
		Host:          c.Host,
		Env:           c.Env,
		ProjectsDir:   c.ProjectsDir,
		TodosDir:      c.TodosDir,
		StaleAfter:    c.StaleAfter,
		WatchDebounce: c.WatchDebounce,
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

// ToFSConfig converts server config to watch service config
func (c *Config) ToFSConfig() fs.Config {
	return fs.Config{
		DefaultDir:    c.TodosDir,
		DebounceDelay: c.WatchDebounce,
	}
}

// ListerOptions converts server config to session lister options
func (c *Config) ListerOptions() []claude.ListerOption {
	return []claude.ListerOption{
		claude.WithStaleAfter(c.StaleAfter),
	}
}
