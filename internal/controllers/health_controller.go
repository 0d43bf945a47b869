package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const pingTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	environment string
	store       Pinger
	log         *slog.Logger
	now         func() time.Time
}

// NewHealthController creates the health handler; store may be nil.
func NewHealthController(environment string, store Pinger, log *slog.Logger) *HealthController {
	return &HealthController{environment: environment, store: store, log: log, now: time.Now}
}

// Health handles GET /health. It always answers 200; an unreachable store
// shows up as status "degraded".
func (hc *HealthController) Health(c *gin.Context) {
	body := gin.H{
		"status":      "ok",
		"timestamp":   hc.now().UTC(),
		"environment": hc.environment,
	}

	if hc.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()
		if err := hc.store.Ping(ctx); err != nil {
			hc.log.WarnContext(ctx, "health: store ping failed", "error", err)
			body["status"] = "degraded"
			body["database"] = "unreachable"
		} else {
			body["database"] = "ok"
		}
	}

	c.JSON(http.StatusOK, body)
}

// NotFound answers every unmatched route
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"message": "Route " + c.Request.URL.RequestURI() + " not found",
	})
}
