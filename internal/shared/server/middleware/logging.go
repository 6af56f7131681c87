package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tone-backend/internal/shared/telemetry"
)

const (
	outcomeKey    = "analysisOutcome"
	textLengthKey = "textLength"
)

// Logging emits a structured log per request. Handlers may set
// "analysisOutcome" and "textLength" on the context to enrich it.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		outcome, _ := c.Get(outcomeKey)
		textLength, _ := c.Get(textLengthKey)

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"outcome":     outcome,
			"text_length": textLength,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
