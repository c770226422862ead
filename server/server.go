package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/claude"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/fs"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/log"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/notifications"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/picker"
)

// Streaming endpoints, excluded from gzip
const (
	PathNotificationStream = "/api/notifications/stream"
	PathNotificationWS     = "/api/notifications/ws"
)

// Server owns and coordinates all application components
type Server struct {
	cfg *Config

	// Components (owned by server)
	projectIndex *claude.ProjectIndex
	lister       *claude.Lister
	fsService    *fs.Service
	notifService *notifications.Service
	picker       picker.Picker

	// Shutdown context - cancelled when server is shutting down.
	// Long-running handlers (WebSocket, SSE) should listen to this.
	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc

	// HTTP
	router *gin.Engine
	http   *http.Server
}

// Option customizes a Server before its components are wired
type Option func(*Server)

// WithPicker replaces the native dialog picker
func WithPicker(p picker.Picker) Option {
	return func(s *Server) {
		s.picker = p
	}
}

// New creates a new server with all components initialized
func New(cfg *Config, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:            cfg,
		shutdownCtx:    ctx,
		shutdownCancel: cancel,
		picker:         picker.NewNative(),
	}
	for _, opt := range opts {
		opt(s)
	}

	// 1. Build the session -> project index
	log.Info().Str("projectsDir", cfg.ProjectsDir).Msg("building project index")
	s.projectIndex = claude.NewProjectIndex(cfg.ProjectsDir)
	s.projectIndex.Rebuild()

	// 2. Session lister resolves through the index
	s.lister = claude.NewLister(s.projectIndex, cfg.ListerOptions()...)

	// 3. Create notifications service
	log.Info().Msg("initializing notifications service")
	s.notifService = notifications.NewService()

	// 4. Create watch service, publishing into notifications
	log.Info().Msg("initializing watch service")
	s.fsService = fs.NewService(cfg.ToFSConfig(), s.lister, s.notifService)

	// 5. Setup HTTP router
	s.setupRouter()

	log.Info().Msg("server initialized successfully")
	return s
}

// setupRouter creates and configures the Gin router
func (s *Server) setupRouter() {
	// Gin's own debug output is replaced by log.GinLogger
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	// Middleware
	s.router.Use(gin.Recovery())
	s.router.Use(log.GinLogger())
	s.router.Use(localOnlyMiddleware(s.cfg))

	// CORS for development
	if s.cfg.IsDevelopment() {
		s.router.Use(corsMiddleware())
	}

	// Gzip compression (skip SSE and WebSocket endpoints)
	s.router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{
		PathNotificationStream,
		PathNotificationWS,
	})))

	// Loopback only; no proxy headers are trusted
	s.router.SetTrustedProxies(nil)

	// Ignore .well-known requests
	s.router.GET("/.well-known/*path", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	// Note: API routes should be set up by calling code (main.go)
	// to avoid import cycles
}

// corsMiddleware handles CORS for development front-end servers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:5173": true,
			"http://127.0.0.1:5173": true,
		}

		if allowedOrigins[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// StartServices starts the background components without the HTTP listener
func (s *Server) StartServices() {
	s.fsService.Start()
}

// Start starts all background services and the HTTP server
func (s *Server) Start() error {
	log.Info().Msg("starting server components")
	s.StartServices()

	s.http = &http.Server{
		Addr:     fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:  s.router,
		ErrorLog: log.StdErrorLogger(), // Route Go's internal HTTP errors through zerolog
	}

	log.Info().
		Str("addr", s.http.Addr).
		Str("env", s.cfg.Env).
		Str("todosDir", s.cfg.TodosDir).
		Msg("HTTP server starting")

	// Blocks until Shutdown
	return s.http.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down server")

	// 1. Signal long-running handlers (WebSocket, SSE) before closing HTTP
	log.Info().Msg("signaling handlers to stop")
	s.shutdownCancel()

	// Give handlers a moment to process the cancellation and close connections.
	time.Sleep(100 * time.Millisecond)

	// 2. Close notification service to cleanly disconnect subscribers
	s.notifService.Shutdown()

	// 3. Stop accepting new requests and wait for existing ones
	var err error
	if s.http != nil {
		if err = s.http.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("http server shutdown error")
		}
	}

	// 4. Release the directory watch
	s.fsService.Stop()

	log.Info().Msg("server shutdown complete")
	return err
}

// Component accessors for API handlers
func (s *Server) Config() *Config                       { return s.cfg }
func (s *Server) Projects() *claude.ProjectIndex        { return s.projectIndex }
func (s *Server) FS() *fs.Service                       { return s.fsService }
func (s *Server) Notifications() *notifications.Service { return s.notifService }
func (s *Server) Picker() picker.Picker                 { return s.picker }
func (s *Server) Router() *gin.Engine                   { return s.router }
func (s *Server) ShutdownContext() context.Context      { return s.shutdownCtx }
