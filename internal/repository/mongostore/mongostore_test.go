package mongostore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tasks-be/internal/repository"
	"tasks-be/internal/repository/repotest"
)

func TestStore(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URL")
	if uri == "" {
		t.Skip("TEST_MONGO_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	n := 0
	repotest.Run(t, func(t *testing.T) repository.Store {
		n++
		store := New(client, fmt.Sprintf("tasks_test_%d_%d", time.Now().UnixNano(), n))
		require.NoError(t, store.EnsureIndexes(context.Background()))
		t.Cleanup(func() { _ = store.Drop(context.Background()) })
		return store
	})
}

func TestOwnedFilter_RejectsMalformedIDs(t *testing.T) {
	_, ok := ownedFilter("not-hex", "65a1b2c3d4e5f60718293a4b")
	require.False(t, ok)

	_, ok = ownedFilter("65a1b2c3d4e5f60718293a4b", "")
	require.False(t, ok)

	filter, ok := ownedFilter("65a1b2c3d4e5f60718293a4b", "65a1b2c3d4e5f60718293a4c")
	require.True(t, ok)
	require.Len(t, filter, 2)
}
