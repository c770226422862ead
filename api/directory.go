package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/fs"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/log"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/picker"
)

// SetDirectoryRequest is the body of PUT /api/directory
type SetDirectoryRequest struct {
	Dir string `json:"dir"`
}

// GetCurrentDir handles GET /api/directory
func (h *Handlers) GetCurrentDir(c *gin.Context) {
	RespondJSON(c, h.server.FS().CurrentDir())
}

// SelectDirectory handles POST /api/directory/select.
// Opens the native picker; responds null when the user cancels.
func (h *Handlers) SelectDirectory(c *gin.Context) {
	dir, err := h.server.Picker().SelectDirectory(c.Request.Context(), h.server.FS().CurrentDir())
	if errors.Is(err, picker.ErrCancelled) {
		RespondNull(c)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("directory picker failed")
		RespondInternalError(c, "Failed to open directory picker")
		return
	}

	h.changeDirectory(c, dir)
}

// SetDirectory handles PUT /api/directory
func (h *Handlers) SetDirectory(c *gin.Context) {
	var req SetDirectoryRequest
	if !bindJSON(c, &req) {
		return
	}

	h.changeDirectory(c, req.Dir)
}

// ResetDirectory handles POST /api/directory/reset
func (h *Handlers) ResetDirectory(c *gin.Context) {
	RespondJSON(c, h.server.FS().Reset())
}

func (h *Handlers) changeDirectory(c *gin.Context, dir string) {
	snapshot, err := h.server.FS().ChangeDirectory(dir)
	if errors.Is(err, fs.ErrEmptyDirectory) {
		RespondValidationError(c, "dir is required")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("dir", dir).Msg("failed to change directory")
		RespondInternalError(c, "Failed to change directory")
		return
	}

	RespondJSON(c, snapshot)
}
