package api

import (
	"github.com/gin-gonic/gin"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/fs"
)

// StatusResponse is the body of GET /api/status
type StatusResponse struct {
	Watch         fs.Status `json:"watch"`
	ProjectsDir   string    `json:"projectsDir"`
	IndexedCount  int       `json:"indexedSessions"`
	Subscribers   int       `json:"subscribers"`
	StaleAfterSec int64     `json:"staleAfterSeconds"`
}

// GetStatus handles GET /api/status
func (h *Handlers) GetStatus(c *gin.Context) {
	index := h.server.Projects()
	RespondJSON(c, StatusResponse{
		Watch:         h.server.FS().Status(),
		ProjectsDir:   index.ProjectsDir(),
		IndexedCount:  index.Len(),
		Subscribers:   h.server.Notifications().SubscriberCount(),
		StaleAfterSec: int64(h.server.Config().StaleAfter.Seconds()),
	})
}
