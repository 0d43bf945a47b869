package router

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"tasks-be/internal/controllers"
	"tasks-be/internal/metrics"
	"tasks-be/internal/middleware"
	"tasks-be/internal/service"
)

type Deps struct {
	AuthService service.AuthService
	TaskService service.TaskService
	Tokens      middleware.TokenValidator
	Metrics     *metrics.Metrics
	Log         *slog.Logger

	// Store backs the health check; nil leaves the database out of it.
	Store controllers.Pinger

	Environment    string
	Production     bool
	AllowedOrigins []string // enforced only in production

	RateLimitRPS       float64
	RateLimitBurst     int
	RateLimitAuthRPS   float64
	RateLimitAuthBurst int

	// OnPanic runs after a recovered handler panic has been answered.
	OnPanic func(recovered any)
}

// New builds the HTTP handler: the gin engine wrapped in CORS. ctx bounds the
// rate limiters' background cleanup.
func New(ctx context.Context, d Deps) http.Handler {
	engine := gin.New()
	engine.Use(
		middleware.Recovery(d.Log, d.OnPanic),
		middleware.RequestLogger(d.Log),
		middleware.Metrics(d.Metrics),
	)

	guard := middleware.AuthMiddleware(d.Tokens)

	health := controllers.NewHealthController(d.Environment, d.Store, d.Log)
	authController := controllers.NewAuthController(d.AuthService, d.Metrics, d.Log)
	taskController := controllers.NewTaskController(d.TaskService, d.Log)

	engine.GET("/health", health.Health)
	engine.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	api := engine.Group("/api")
	if d.RateLimitRPS > 0 {
		api.Use(middleware.NewRateLimiter(ctx, rate.Limit(d.RateLimitRPS), d.RateLimitBurst).LimitMiddleware())
	}
	{
		auth := api.Group("/auth")
		if d.RateLimitAuthRPS > 0 {
			auth.Use(middleware.NewRateLimiter(ctx, rate.Limit(d.RateLimitAuthRPS), d.RateLimitAuthBurst).LimitMiddleware())
		}
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", guard, authController.Me)

		// Protected routes - require JWT authentication
		tasks := api.Group(tasksPrefix)
		tasks.Use(guard)
		{
			tasks.POST("", taskController.CreateTask)
			tasks.GET("", taskController.GetTasks)
			tasks.PUT("/:id", taskController.UpdateTask)
			tasks.DELETE("/:id", taskController.DeleteTask)
		}
	}

	// Unmatched paths under /api/tasks are still behind the guard.
	engine.NoRoute(guardPrefix("/api"+tasksPrefix, guard), controllers.NotFound)

	return cors.Handler(corsOptions(d))(engine)
}

const tasksPrefix = "/tasks"

// guardPrefix applies guard to requests whose path is prefix or below it.
func guardPrefix(prefix string, guard gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			guard(c)
		}
	}
}

func corsOptions(d Deps) cors.Options {
	opts := cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if d.Production {
		opts.AllowedOrigins = d.AllowedOrigins
	} else {
		opts.AllowOriginFunc = func(*http.Request, string) bool { return true }
	}
	return opts
}
