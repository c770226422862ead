package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/api"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/config"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/log"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/server"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// CLI flags. Defaults come from the environment (see config.Get).
type CLI struct {
	Version kong.VersionFlag `help:"Show version information"`

	Port     int    `help:"HTTP port" default:"${port}"`
	Host     string `help:"HTTP bind address" default:"${host}"`
	LogLevel string `help:"Log level (debug, info, warn, error, off)" default:"${log_level}"`

	ClaudeDir   string `help:"Claude config directory" type:"path" default:"${claude_dir}"`
	TodosDir    string `help:"Todos directory watched on start (default <claude-dir>/todos)" type:"path"`
	ProjectsDir string `help:"Projects directory used to resolve sessions (default <claude-dir>/projects)" type:"path"`

	StaleAfter time.Duration `help:"Hide sessions whose todo file is older than this" default:"${stale_after}"`
	Debounce   time.Duration `help:"Coalesce file events for this long (0 disables)" default:"${debounce}"`
}

// Apply writes the parsed flags over the environment configuration
func (c *CLI) Apply(cfg *config.Config) {
	cfg.Port = c.Port
	cfg.Host = c.Host
	cfg.LogLevel = c.LogLevel
	if c.ClaudeDir != cfg.ClaudeDir {
		cfg.SetClaudeDir(c.ClaudeDir)
	}
	if c.TodosDir != "" {
		cfg.TodosDir = c.TodosDir
	}
	if c.ProjectsDir != "" {
		cfg.ProjectsDir = c.ProjectsDir
	}
	cfg.StaleAfter = c.StaleAfter
	cfg.WatchDebounce = c.Debounce
}

func main() {
	cfg := config.Get()

	var cli CLI
	kong.Parse(&cli,
		kong.Name("todo-viewer"),
		kong.Description("Live view of Claude todo lists, mapped back to their projects."),
		kong.UsageOnError(),
		kong.Vars{
			"version":     version,
			"port":        strconv.Itoa(cfg.Port),
			"host":        cfg.Host,
			"log_level":   cfg.LogLevel,
			"claude_dir":  cfg.ClaudeDir,
			"stale_after": cfg.StaleAfter.String(),
			"debounce":    cfg.WatchDebounce.String(),
		},
	)
	cli.Apply(cfg)
	log.SetLevel(cfg.LogLevel)

	log.Info().
		Str("version", version).
		Str("todosDir", cfg.TodosDir).
		Str("projectsDir", cfg.ProjectsDir).
		Dur("staleAfter", cfg.StaleAfter).
		Msg("configuration loaded")

	srv := server.New(server.FromAppConfig(cfg))
	api.SetupRoutes(srv.Router(), api.NewHandlers(srv))

	// Start server
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}
