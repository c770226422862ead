package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *Handlers) {
	api := r.Group("/api")

	// Sessions and todos
	api.GET("/sessions", h.GetSessions)
	api.POST("/sessions/select", h.SelectSession)
	api.GET("/todos", h.GetTodos)

	// Watched directory
	api.GET("/directory", h.GetCurrentDir)
	api.PUT("/directory", h.SetDirectory)
	api.POST("/directory/select", h.SelectDirectory)
	api.POST("/directory/reset", h.ResetDirectory)

	// Notification sound
	api.POST("/sound/select", h.SelectSoundFile)

	// Project index
	api.GET("/projects", h.GetProjects)
	api.POST("/projects/reindex", h.ReindexProjects)

	// Diagnostics
	api.GET("/status", h.GetStatus)

	// Push notifications
	api.GET("/notifications/stream", h.NotificationStream)
	api.GET("/notifications/ws", h.NotificationWebSocket)
}
