package api

import (
	"github.com/gin-gonic/gin"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/log"
)

// SelectSessionRequest is the body of POST /api/sessions/select
type SelectSessionRequest struct {
	File string `json:"file"`
}

// GetSessions handles GET /api/sessions
func (h *Handlers) GetSessions(c *gin.Context) {
	RespondJSON(c, h.server.FS().Sessions())
}

// GetTodos handles GET /api/todos?file=<path>
// Without file, the selected session is read.
func (h *Handlers) GetTodos(c *gin.Context) {
	RespondJSON(c, h.server.FS().Todos(c.Query("file")))
}

// SelectSession handles POST /api/sessions/select
func (h *Handlers) SelectSession(c *gin.Context) {
	var req SelectSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	log.Debug().Str("file", req.File).Msg("selecting session")
	RespondJSON(c, h.server.FS().SelectSession(req.File))
}
