package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs one line per request. Headers and bodies are never
// logged because they carry passwords and bearer tokens.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if id, ok := UserID(c); ok {
			attrs = append(attrs, slog.String("user_id", id))
		}

		switch {
		case status >= 500:
			log.ErrorContext(c.Request.Context(), "request completed", attrs...)
		case status >= 400:
			log.WarnContext(c.Request.Context(), "request completed", attrs...)
		default:
			log.InfoContext(c.Request.Context(), "request completed", attrs...)
		}
	}
}
