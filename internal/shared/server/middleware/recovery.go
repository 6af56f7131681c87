package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"tone-backend/internal/shared/metrics"
	"tone-backend/internal/shared/server/respond"
	"tone-backend/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 carrying the request ID.
// http.ErrAbortHandler is re-raised so net/http can drop the connection.
// When the handler already started writing, the response is only aborted.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			metrics.IncPanic(c.FullPath())
			c.Set(outcomeKey, "panic")
			telemetry.Error("http.panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"route":      c.FullPath(),
				"method":     c.Request.Method,
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal", respond.ErrorBody{Error: "Unexpected server error"})
		}()
		c.Next()
	}
}
