package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-very-long-secret-used-only-in-tests!")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 30*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "memory://", cfg.DatabaseURL)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, ":5000", cfg.Addr())
}

func TestLoad_MissingSecretFails(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := &Config{Port: "", BcryptCost: 20, JWTTTL: 0, DBRetryDelay: time.Second}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "BCRYPT_COST")
	assert.Contains(t, err.Error(), "JWT_TTL")
	assert.Contains(t, err.Error(), "PORT")
}

func TestValidate_ProductionRejectsVolatileStore(t *testing.T) {
	base := Config{
		Environment:  EnvProduction,
		Port:         "5000",
		JWTSecret:    "a-very-long-secret-used-only-in-tests!",
		JWTTTL:       time.Hour,
		BcryptCost:   10,
		DBRetryDelay: time.Second,
	}

	for _, dbURL := range []string{"", "memory://", "MEMORY://"} {
		cfg := base
		cfg.DatabaseURL = dbURL
		err := cfg.Validate()
		require.Error(t, err, "DATABASE_URL=%q", dbURL)
		assert.Contains(t, err.Error(), "DATABASE_URL")
	}

	cfg := base
	cfg.DatabaseURL = "postgres://app@db/tasks"
	assert.NoError(t, cfg.Validate())

	cfg = base
	cfg.Environment = "development"
	cfg.DatabaseURL = "memory://"
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ProductionWithoutDatabaseFails(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-very-long-secret-used-only-in-tests!")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{FrontendURL: "https://tasks.example.com/, https://beta.example.com"}

	assert.Equal(t, []string{
		"http://localhost:5173",
		"http://localhost:4173",
		"https://tasks.example.com",
		"https://beta.example.com",
	}, cfg.AllowedOrigins())
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{Environment: "Production"}).IsProduction())
	assert.False(t, (&Config{Environment: "staging"}).IsProduction())
}
