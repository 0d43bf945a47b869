package controllers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"tasks-be/internal/apperr"
)

// respondError maps err onto the error taxonomy. Unexpected errors are logged
// and reported as a bare 500 without detail.
func respondError(c *gin.Context, log *slog.Logger, op string, err error) {
	status := apperr.Status(err)
	if status >= 500 {
		log.ErrorContext(c.Request.Context(), op+" failed", "error", err)
	}
	c.JSON(status, gin.H{
		"message": apperr.Message(err),
	})
}
