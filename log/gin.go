package log

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyHijacked is the key used to mark a connection as hijacked in Gin's context.
// WebSocket handlers should call MarkHijacked(c) after upgrading the connection.
const ContextKeyHijacked = "connection_hijacked"

// ContextKeyRequestID holds the request id assigned by GinLogger.
const ContextKeyRequestID = "request_id"

// HeaderRequestID is echoed back on every response.
const HeaderRequestID = "X-Request-ID"

// MarkHijacked marks the connection as hijacked in Gin's context.
// Call this in WebSocket handlers BEFORE calling websocket.Accept() to prevent
// middleware from attempting to write to the hijacked connection.
func MarkHijacked(c *gin.Context) {
	c.Set(ContextKeyHijacked, true)
}

// IsHijacked checks if the connection has been marked as hijacked.
func IsHijacked(c *gin.Context) bool {
	hijacked, exists := c.Get(ContextKeyHijacked)
	return exists && hijacked.(bool)
}

// RequestID returns the id GinLogger assigned to the request, if any.
func RequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// GinLogger returns a Gin middleware that logs requests using zerolog
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()

		// Touching c.Writer after a WebSocket upgrade makes gin write headers
		// on the hijacked connection.
		if IsHijacked(c) {
			return
		}

		latency := time.Since(start)
		status := c.Writer.Status()
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()

		if raw != "" {
			path = path + "?" + raw
		}

		event := Debug()
		if status >= 500 {
			event = Error()
		} else if status >= 400 {
			event = Warn()
		}

		event.
			Str("requestId", requestID).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", latency).
			Str("ip", c.ClientIP())

		if errorMessage != "" {
			event.Str("error", errorMessage)
		}

		event.Msg("request")
	}
}
