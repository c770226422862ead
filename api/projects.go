package api

import (
	"github.com/gin-gonic/gin"
)

// ReindexResponse reports the result of a project index rebuild
type ReindexResponse struct {
	ProjectsDir  string `json:"projectsDir"`
	SessionCount int    `json:"sessionCount"`
	ProjectCount int    `json:"projectCount"`
}

// GetProjects handles GET /api/projects
func (h *Handlers) GetProjects(c *gin.Context) {
	RespondJSON(c, h.server.Projects().Projects())
}

// ReindexProjects handles POST /api/projects/reindex.
// The current session list is pushed again so project names refresh.
func (h *Handlers) ReindexProjects(c *gin.Context) {
	index := h.server.Projects()
	sessions := index.Rebuild()

	fsService := h.server.FS()
	h.server.Notifications().NotifySessionsUpdated(fsService.CurrentDir(), fsService.Sessions())

	RespondJSON(c, ReindexResponse{
		ProjectsDir:  index.ProjectsDir(),
		SessionCount: sessions,
		ProjectCount: len(index.Projects()),
	})
}
