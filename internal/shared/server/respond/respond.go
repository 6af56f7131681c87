package respond

import (
	"github.com/gin-gonic/gin"

	"tone-backend/internal/shared/telemetry"
)

// ErrorBody is the error payload returned to clients.
type ErrorBody struct {
	Error   string `json:"error"`
	Raw     string `json:"raw,omitempty"`
	Details string `json:"details,omitempty"`
}

// Error logs and sends an error response. code is only logged.
func Error(c *gin.Context, status int, code string, body ErrorBody) {
	telemetry.Error("http.error", map[string]any{
		"status":     status,
		"code":       code,
		"message":    body.Error,
		"details":    body.Details,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	})

	c.AbortWithStatusJSON(status, body)
}

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}
