package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRecovery_Returns500AndNotifies(t *testing.T) {
	var logs bytes.Buffer
	var notified any

	r := gin.New()
	r.Use(Recovery(slog.New(slog.NewTextHandler(&logs, nil)), func(rec any) { notified = rec }))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Server error"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "kaboom")
	assert.Equal(t, "kaboom", notified)
	assert.Contains(t, logs.String(), "panic recovered")
}

func TestRequestLogger_OmitsHeaders(t *testing.T) {
	var logs bytes.Buffer

	r := gin.New()
	r.Use(RequestLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer secret-token-value")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, logs.String(), "route=/ping")
	assert.Contains(t, logs.String(), "status=204")
	assert.NotContains(t, logs.String(), "secret-token-value")
}
