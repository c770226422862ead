package server

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/log"
)

// Host names that always reach the viewer
var loopbackHosts = map[string]bool{
	"localhost": true,
	"127.0.0.1": true,
	"::1":       true,
}

// AllowsHost reports whether hostname (no port) names this server.
// A wildcard bind address still only answers to loopback names.
func (c *Config) AllowsHost(hostname string) bool {
	hostname = strings.ToLower(strings.TrimSuffix(hostname, "."))
	if loopbackHosts[hostname] {
		return true
	}
	switch c.Host {
	case "", "0.0.0.0", "::":
		return false
	}
	return hostname == strings.ToLower(c.Host)
}

// AllowsOrigin reports whether a browser Origin header belongs to this server
// or a dev front-end on one of its hosts. "null" and malformed origins fail.
func (c *Config) AllowsOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	return c.AllowsHost(u.Hostname())
}

// OriginPatterns lists the origin hosts a WebSocket upgrade accepts, in the
// host[:port] glob form of websocket.AcceptOptions.
func (c *Config) OriginPatterns() []string {
	patterns := []string{"localhost", "localhost:*", "127.0.0.1", "127.0.0.1:*"}
	switch c.Host {
	case "", "0.0.0.0", "::", "localhost", "127.0.0.1", "::1":
	default:
		if !strings.Contains(c.Host, ":") {
			patterns = append(patterns, c.Host, c.Host+":*")
		}
	}
	return patterns
}

// localOnlyMiddleware rejects requests addressed to a foreign Host (DNS
// rebinding) and requests sent by pages on a foreign Origin.
func localOnlyMiddleware(cfg *Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.AllowsHost(requestHostname(c.Request)) {
			log.Warn().Str("host", c.Request.Host).Str("path", c.Request.URL.Path).Msg("rejected request for foreign host")
			forbid(c, "Host not allowed")
			return
		}

		if origin := c.GetHeader("Origin"); origin != "" && !cfg.AllowsOrigin(origin) {
			log.Warn().Str("origin", origin).Str("path", c.Request.URL.Path).Msg("rejected cross-origin request")
			forbid(c, "Origin not allowed")
			return
		}

		c.Next()
	}
}

func requestHostname(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.Host); err == nil {
		return host
	}
	return strings.Trim(r.Host, "[]")
}

// forbid writes the same error envelope the API handlers use
func forbid(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"error": gin.H{
			"code":    "FORBIDDEN",
			"message": message,
		},
	})
}
