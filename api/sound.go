package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/log"
	"github.com/xiaoyuanzhu-com/claude-todo-viewer/picker"
)

// SelectSoundFile handles POST /api/sound/select.
// Responds with the chosen path, or null when the user cancels.
func (h *Handlers) SelectSoundFile(c *gin.Context) {
	path, err := h.server.Picker().SelectFile(c.Request.Context(), "Select notification sound", picker.AudioFilter)
	if errors.Is(err, picker.ErrCancelled) {
		RespondNull(c)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("sound picker failed")
		RespondInternalError(c, "Failed to open file picker")
		return
	}

	RespondJSON(c, path)
}
