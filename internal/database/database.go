package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tasks-be/internal/database/migrations"
	"tasks-be/internal/repository"
	"tasks-be/internal/repository/memory"
	"tasks-be/internal/repository/mongostore"
)

const connectTimeout = 10 * time.Second

type Options struct {
	URL        string
	MongoDB    string        // database name for mongodb:// URLs
	RetryDelay time.Duration // fixed delay between connection attempts
}

// Open connects to the backend selected by the URL scheme and prepares its
// schema. Connection failures are retried with a constant delay until ctx is
// cancelled; schema failures are returned immediately.
func Open(ctx context.Context, opts Options, log *slog.Logger) (repository.Store, error) {
	scheme, _, _ := strings.Cut(opts.URL, "://")
	switch scheme {
	case "memory":
		log.Warn("using in-memory store, data is lost on restart")
		return memory.New(), nil
	case "postgres", "postgresql":
		db, err := withRetry(ctx, opts.RetryDelay, log, func(ctx context.Context) (*sql.DB, error) {
			return NewConnection(ctx, opts.URL)
		})
		if err != nil {
			return nil, err
		}
		if err := RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("database migrations completed")
		return repository.NewPostgresStore(db), nil
	case "mongodb", "mongodb+srv":
		client, err := withRetry(ctx, opts.RetryDelay, log, func(ctx context.Context) (*mongo.Client, error) {
			return NewMongoClient(ctx, opts.URL)
		})
		if err != nil {
			return nil, err
		}
		store := mongostore.New(client, opts.MongoDB)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported DATABASE_URL scheme %q", scheme)
	}
}

// NewConnection opens and pings a PostgreSQL connection
func NewConnection(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// NewMongoClient connects and pings a MongoDB deployment
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	connCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(connCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// RunMigrations applies the embedded goose migrations
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func withRetry[T any](ctx context.Context, delay time.Duration, log *slog.Logger, connect func(context.Context) (T, error)) (T, error) {
	var (
		conn    T
		attempt int
	)
	err := retry.Do(ctx, retry.NewConstant(delay), func(ctx context.Context) error {
		attempt++
		c, err := connect(ctx)
		if err != nil {
			log.Error("database connection failed, retrying", "attempt", attempt, "delay", delay, "error", err)
			return retry.RetryableError(err)
		}
		conn = c
		return nil
	})
	if err != nil {
		return conn, fmt.Errorf("connect database: %w", err)
	}
	log.Info("connected to database", "attempts", attempt)
	return conn, nil
}
