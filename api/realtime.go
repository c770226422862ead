package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/log"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/notifications"
)

const (
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 5 * time.Second
)

// NotificationWebSocket handles GET /api/notifications/ws.
// Pushes the same events as the SSE stream; client messages are ignored.
func (h *Handlers) NotificationWebSocket(c *gin.Context) {
	// Get the underlying http.ResponseWriter from Gin's wrapper
	var w http.ResponseWriter = c.Writer
	if unwrapper, ok := c.Writer.(interface{ Unwrap() http.ResponseWriter }); ok {
		w = unwrapper.Unwrap()
	}

	log.MarkHijacked(c)
	conn, err := websocket.Accept(w, c.Request, &websocket.AcceptOptions{
		OriginPatterns: h.server.Config().OriginPatterns(),
	})
	if err != nil {
		log.Error().Err(err).Msg("notification WebSocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Abort Gin context to prevent middleware from writing headers on hijacked connection
	c.Abort()

	// Gin's request context doesn't cancel when the WebSocket closes
	ctx, cancel := context.WithCancel(h.server.ShutdownContext())
	defer cancel()

	events, unsubscribe := h.server.Notifications().Subscribe()
	defer unsubscribe()

	// CloseRead discards client frames and cancels ctx when the peer goes away
	ctx = conn.CloseRead(ctx)

	log.Debug().Str("requestId", log.RequestID(c)).Msg("notification WebSocket connected")

	if err := writeWSEvent(ctx, conn, notifications.Event{
		Type: notifications.EventConnected,
		Dir:  h.server.FS().CurrentDir(),
	}); err != nil {
		return
	}

	pingTicker := time.NewTicker(wsPingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "server shutting down")
				return
			}
			if err := writeWSEvent(ctx, conn, event); err != nil {
				log.Debug().Err(err).Msg("notification WebSocket write failed")
				return
			}

		case <-pingTicker.C:
			if err := conn.Ping(ctx); err != nil {
				return
			}

		case <-ctx.Done():
			log.Debug().Msg("notification WebSocket closed")
			return
		}
	}
}

func writeWSEvent(ctx context.Context, conn *websocket.Conn, event notifications.Event) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("type", string(event.Type)).Msg("failed to marshal event")
		return nil
	}

	writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, data)
}
