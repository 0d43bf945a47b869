package database

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasks-be/internal/database/migrations"
	"tasks-be/internal/repository/memory"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestOpen_Memory(t *testing.T) {
	store, err := Open(context.Background(), Options{URL: "memory://"}, discard)
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestOpen_UnsupportedScheme(t *testing.T) {
	_, err := Open(context.Background(), Options{URL: "mysql://localhost/db"}, discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mysql")
}

func TestWithRetry_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	got, err := withRetry(context.Background(), time.Millisecond, discard, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("connection refused")
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := withRetry(ctx, 5*time.Millisecond, discard, func(context.Context) (int, error) {
		return 0, errors.New("connection refused")
	})
	require.Error(t, err)
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"00001_create_users.sql", "00002_create_tasks.sql"}, names)
}
