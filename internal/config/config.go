package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const EnvProduction = "production"

// Default origins of the bundled frontend dev and preview servers.
var defaultOrigins = []string{"http://localhost:5173", "http://localhost:4173"}

type Config struct {
	Environment   string        `env:"APP_ENV" envDefault:"development"`
	Port          string        `env:"PORT" envDefault:"5000"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	DatabaseURL   string        `env:"DATABASE_URL" envDefault:"memory://"`
	MongoDatabase string        `env:"MONGO_DATABASE" envDefault:"tasks"`
	DBRetryDelay  time.Duration `env:"DB_RETRY_DELAY" envDefault:"5s"`
	RedisURL      string        `env:"REDIS_URL"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"5m"`
	FrontendURL   string        `env:"FRONTEND_URL"`  // Comma-separated list of extra allowed origins
	JWTSecret     string        `env:"JWT_SECRET"`    // Secret key for JWT token signing
	JWTTTL        time.Duration `env:"JWT_TTL" envDefault:"720h"`
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"10"`

	RateLimitRPS       float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst     int     `env:"RATE_LIMIT_BURST" envDefault:"40"`
	RateLimitAuthRPS   float64 `env:"RATE_LIMIT_AUTH_RPS" envDefault:"5"`
	RateLimitAuthBurst int     `env:"RATE_LIMIT_AUTH_BURST" envDefault:"10"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables or defaults", "error", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server must not start with.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost))
	}
	if c.DBRetryDelay <= 0 {
		errs = append(errs, fmt.Errorf("DB_RETRY_DELAY must be positive, got %s", c.DBRetryDelay))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if c.IsProduction() && c.volatileStore() {
		errs = append(errs, errors.New("DATABASE_URL must point at a persistent store in production"))
	}
	return errors.Join(errs...)
}

func (c *Config) volatileStore() bool {
	u, err := url.Parse(strings.TrimSpace(c.DatabaseURL))
	if err != nil {
		return false
	}
	return u.Scheme == "" || strings.EqualFold(u.Scheme, "memory")
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, EnvProduction)
}

// AllowedOrigins returns the CORS allow-list used in production.
func (c *Config) AllowedOrigins() []string {
	origins := append([]string(nil), defaultOrigins...)
	for _, o := range strings.Split(c.FrontendURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, strings.TrimSuffix(o, "/"))
		}
	}
	return origins
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
