package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"tasks-be/internal/apperr"
	"tasks-be/internal/metrics"
	"tasks-be/internal/models"
	"tasks-be/internal/service"
)

type AuthController struct {
	authService service.AuthService
	metrics     *metrics.Metrics
	log         *slog.Logger
}

func NewAuthController(authService service.AuthService, m *metrics.Metrics, log *slog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		metrics:     m,
		log:         log,
	}
}

// Register handles POST /api/auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ac.badRequest(c, err, "Please provide all required fields")
		return
	}

	response, err := ac.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			ac.metrics.AuthFailures.WithLabelValues("duplicate_email").Inc()
		}
		respondError(c, ac.log, "register", err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Login handles POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ac.badRequest(c, err, "Please provide email and password")
		return
	}

	response, err := ac.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthorized) {
			ac.metrics.AuthFailures.WithLabelValues("invalid_credentials").Inc()
		}
		respondError(c, ac.log, "login", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Me handles GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	user, err := ac.authService.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, ac.log, "me", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// badRequest answers binding failures: missing fields get the domain message,
// anything else (malformed JSON, wrong types) a generic one.
func (ac *AuthController) badRequest(c *gin.Context, err error, missingFields string) {
	message := "Invalid request body"
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		message = missingFields
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"message": message,
	})
}
