package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"tasks-be/internal/cache"
	"tasks-be/internal/config"
	"tasks-be/internal/database"
	"tasks-be/internal/jwt"
	"tasks-be/internal/logger"
	"tasks-be/internal/metrics"
	"tasks-be/internal/password"
	"tasks-be/internal/router"
	"tasks-be/internal/service"
)

const shutdownTimeout = 10 * time.Second

var errHandlerPanic = errors.New("handler panicked")

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		return err
	}

	log := logger.New(os.Stdout, cfg.IsProduction(), cfg.LogLevel)
	slog.SetDefault(log)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if len(cfg.JWTSecret) < 32 {
		log.Warn("JWT_SECRET is shorter than 32 bytes")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	// Connect to database, retrying until it is reachable
	store, err := database.Open(ctx, database.Options{
		URL:        cfg.DatabaseURL,
		MongoDB:    cfg.MongoDatabase,
		RetryDelay: cfg.DBRetryDelay,
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	// Initialize Redis cache (optional - continue if Redis is unavailable)
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("failed to connect to Redis, continuing without cache", "error", err)
			cacheClient = nil
		} else {
			log.Info("connected to Redis cache")
			defer cacheClient.Close()
		}
	}

	hasher, err := password.NewHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}
	jwtService := jwt.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)

	authService := service.NewAuthService(store.Users(), hasher, jwtService)
	taskService := service.NewTaskService(store.Tasks(), cacheClient, cfg.CacheTTL, log)

	handler := router.New(ctx, router.Deps{
		AuthService:        authService,
		TaskService:        taskService,
		Tokens:             jwtService,
		Metrics:            metrics.New(),
		Log:                log,
		Store:              store,
		Environment:        cfg.Environment,
		Production:         cfg.IsProduction(),
		AllowedOrigins:     cfg.AllowedOrigins(),
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
		RateLimitAuthRPS:   cfg.RateLimitAuthRPS,
		RateLimitAuthBurst: cfg.RateLimitAuthBurst,
		OnPanic:            panicPolicy(cfg.IsProduction(), log, cancel),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "addr", srv.Addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		log.Info("server stopped")
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return exitError(ctx)
}

// panicPolicy returns the hook run after a recovered handler panic. Outside
// production it cancels the root context so the server drains and exits.
func panicPolicy(production bool, log *slog.Logger, cancel context.CancelCauseFunc) func(recovered any) {
	return func(recovered any) {
		if production {
			log.Error("production environment - continuing despite panic")
			return
		}
		cancel(fmt.Errorf("%w: %v", errHandlerPanic, recovered))
	}
}

// exitError reports a panic-triggered shutdown as a failure; signals are a clean exit.
func exitError(ctx context.Context) error {
	if cause := context.Cause(ctx); errors.Is(cause, errHandlerPanic) {
		return cause
	}
	return nil
}
