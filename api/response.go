package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Successful responses carry the bare value (a list, an object or null);
// only errors are wrapped.

// ErrorCode defines standard error codes for programmatic handling
type ErrorCode string

const (
	ErrCodeBadRequest       ErrorCode = "BAD_REQUEST"            // 400 - Malformed request
	ErrCodeValidation       ErrorCode = "VALIDATION_ERROR"       // 400 - Validation failed
	ErrCodeUnsupportedMedia ErrorCode = "UNSUPPORTED_MEDIA_TYPE" // 415 - Body is not JSON
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"         // 500 - Unexpected error
)

// ErrorResponse is the standard error response structure
type ErrorResponse struct {
	Error struct {
		Code    ErrorCode `json:"code"`    // Machine-readable error code
		Message string    `json:"message"` // Human-readable error message
	} `json:"error"`
}

// RespondJSON sends a 200 with the value as the whole body
func RespondJSON(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// RespondNull sends a 200 with a JSON null body
func RespondNull(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte("null"))
}

// respondError is the internal helper for error responses
func respondError(c *gin.Context, status int, code ErrorCode, message string) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	c.JSON(status, resp)
}

// RespondBadRequest sends a 400 Bad Request error
func RespondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// RespondValidationError sends a 400 for a well-formed but invalid request
func RespondValidationError(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, ErrCodeValidation, message)
}

// RespondUnsupportedMediaType sends a 415 for a body that is not declared as JSON
func RespondUnsupportedMediaType(c *gin.Context, message string) {
	respondError(c, http.StatusUnsupportedMediaType, ErrCodeUnsupportedMedia, message)
}

// bindJSON decodes a JSON request body into obj and reports whether the
// handler should go on. Form and text/plain bodies are rejected with 415.
func bindJSON(c *gin.Context, obj any) bool {
	if c.ContentType() != gin.MIMEJSON {
		RespondUnsupportedMediaType(c, "Content-Type must be application/json")
		return false
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		RespondBadRequest(c, "Invalid request body")
		return false
	}
	return true
}

// RespondInternalError sends a 500 Internal Server Error
func RespondInternalError(c *gin.Context, message string) {
	respondError(c, http.StatusInternalServerError, ErrCodeInternal, message)
}
