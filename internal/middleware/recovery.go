package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// Recovery turns a handler panic into a generic 500. onPanic, if non-nil, runs
// after the response is written; main uses it to fail fast outside production.
func Recovery(log *slog.Logger, onPanic func(recovered any)) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.ErrorContext(c.Request.Context(), "panic recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"stack", string(debug.Stack()),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"message": "Server error",
		})
		if onPanic != nil {
			onPanic(recovered)
		}
	})
}
