package client

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tasks-be/internal/jwt"
	"tasks-be/internal/metrics"
	"tasks-be/internal/models"
	"tasks-be/internal/password"
	"tasks-be/internal/repository/memory"
	"tasks-be/internal/router"
	"tasks-be/internal/service"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	hasher, err := password.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens := jwt.NewJWTService("test-secret-for-client-tests-00000", 0)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := httptest.NewServer(router.New(ctx, router.Deps{
		AuthService: service.NewAuthService(store.Users(), hasher, tokens),
		TaskService: service.NewTaskService(store.Tasks(), nil, 0, log),
		Tokens:      tokens,
		Metrics:     metrics.New(),
		Log:         log,
		Environment: "test",
	}))
	t.Cleanup(srv.Close)
	return srv
}

func ptr(s string) *string { return &s }

func TestClient_FullFlow(t *testing.T) {
	srv := newBackend(t)
	ctx := context.Background()
	c := New(srv.URL, NewMemoryStore())

	s, err := c.Register(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Alice", s.User.Name)

	stored, err := c.Session()
	require.NoError(t, err)
	assert.Equal(t, s.Token, stored.Token)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.User, *me)

	task, err := c.CreateTask(ctx, "write tests", "client side")
	require.NoError(t, err)
	assert.Equal(t, s.User.ID, task.UserID)

	updated, err := c.UpdateTask(ctx, task.ID, models.UpdateTaskRequest{Description: ptr("done")})
	require.NoError(t, err)
	assert.Equal(t, "write tests", updated.Title)
	assert.Equal(t, "done", updated.Description)

	tasks, err := c.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "done", tasks[0].Description)

	require.NoError(t, c.DeleteTask(ctx, task.ID))
	tasks, err = c.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestClient_ErrorsCarryServerMessage(t *testing.T) {
	srv := newBackend(t)
	ctx := context.Background()
	c := New(srv.URL, NewMemoryStore())

	_, err := c.Login(ctx, "nobody@example.com", "x")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid credentials", apiErr.Message)

	_, err = c.Register(ctx, "Bob", "bob@example.com", "pw")
	require.NoError(t, err)

	err = c.DeleteTask(ctx, "missing")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Task not found", apiErr.Message)
}

func TestClient_LoggedOut(t *testing.T) {
	srv := newBackend(t)
	ctx := context.Background()
	c := New(srv.URL, NewMemoryStore())

	_, err := c.ListTasks(ctx)
	assert.ErrorIs(t, err, ErrLoggedOut)

	_, err = c.Register(ctx, "Carol", "carol@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, c.Logout())

	_, err = c.ListTasks(ctx)
	assert.ErrorIs(t, err, ErrLoggedOut)
}

func TestClient_RejectedTokenClearsSession(t *testing.T) {
	srv := newBackend(t)
	store := NewMemoryStore()
	require.NoError(t, store.Save(&Session{Token: "forged.token.value"}))
	c := New(srv.URL, store)

	_, err := c.ListTasks(context.Background())
	assert.ErrorIs(t, err, ErrLoggedOut)

	s, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestClient_ReadsTokenAtSendTime(t *testing.T) {
	srv := newBackend(t)
	ctx := context.Background()
	store := NewMemoryStore()
	c := New(srv.URL, store)

	alice, err := c.Register(ctx, "Alice", "alice@example.com", "pw")
	require.NoError(t, err)
	_, err = c.CreateTask(ctx, "alice's", "")
	require.NoError(t, err)

	_, err = c.Register(ctx, "Bob", "bob@example.com", "pw")
	require.NoError(t, err)
	tasks, err := c.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	require.NoError(t, store.Save(alice))
	tasks, err = c.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestBearerTransport_OnlyOnAuthedRequests(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"t","user":{"_id":"1","name":"n","email":"e"}}`))
	}))
	defer srv.Close()

	store := NewMemoryStore()
	require.NoError(t, store.Save(&Session{Token: "abc"}))
	c := New(srv.URL, store)

	_, err := c.Login(context.Background(), "e", "p")
	require.NoError(t, err)
	_ = c.DeleteTask(context.Background(), "1")

	require.Len(t, got, 2)
	assert.Empty(t, got[0])
	assert.Equal(t, "Bearer t", got[1])
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	fs := NewFileStore(path)

	s, err := fs.Load()
	require.NoError(t, err)
	assert.Nil(t, s)

	want := &Session{Token: "tok", User: models.UserView{ID: "1", Name: "A", Email: "a@example.com"}}
	require.NoError(t, fs.Save(want))

	got, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, fs.Clear())
	require.NoError(t, fs.Clear())
	s, err = fs.Load()
	require.NoError(t, err)
	assert.Nil(t, s)
}
