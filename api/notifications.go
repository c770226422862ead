package api

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/log"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/notifications"
)

// sseHeartbeatInterval keeps idle proxies from closing the stream
const sseHeartbeatInterval = 30 * time.Second

// NotificationStream handles GET /api/notifications/stream (SSE)
func (h *Handlers) NotificationStream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable nginx buffering

	events, unsubscribe := h.server.Notifications().Subscribe()
	defer unsubscribe()

	// Send initial connected event
	writeSSEEvent(c.Writer, notifications.Event{
		Type: notifications.EventConnected,
		Dir:  h.server.FS().CurrentDir(),
	})
	c.Writer.Flush()

	log.Debug().Msg("client connected to notification stream")

	ticker := time.NewTicker(sseHeartbeatInterval)
	defer ticker.Stop()

	shutdown := h.server.ShutdownContext()
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			writeSSEEvent(c.Writer, event)
			c.Writer.Flush()

		case <-ticker.C:
			fmt.Fprintf(c.Writer, ": heartbeat\n\n")
			c.Writer.Flush()

		case <-c.Request.Context().Done():
			log.Debug().Msg("client disconnected from notification stream")
			return

		case <-shutdown.Done():
			return
		}
	}
}

func writeSSEEvent(w io.Writer, event notifications.Event) {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("type", string(event.Type)).Msg("failed to marshal event")
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}
