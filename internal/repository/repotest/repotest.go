// Package repotest is a behavioural suite every repository.Store backend must pass.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasks-be/internal/apperr"
	"tasks-be/internal/entities"
	"tasks-be/internal/repository"
)

// Run exercises store. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) repository.Store) {
	t.Run("UserCreateAndFind", func(t *testing.T) { testUserCreateAndFind(t, newStore(t)) })
	t.Run("UserDuplicateEmail", func(t *testing.T) { testUserDuplicateEmail(t, newStore(t)) })
	t.Run("UserNotFound", func(t *testing.T) { testUserNotFound(t, newStore(t)) })
	t.Run("TaskOwnership", func(t *testing.T) { testTaskOwnership(t, newStore(t)) })
	t.Run("TaskListOrder", func(t *testing.T) { testTaskListOrder(t, newStore(t)) })
	t.Run("TaskUpdateAndDelete", func(t *testing.T) { testTaskUpdateAndDelete(t, newStore(t)) })
	t.Run("TaskMalformedID", func(t *testing.T) { testTaskMalformedID(t, newStore(t)) })
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func createUser(t *testing.T, store repository.Store, email string) *entities.User {
	t.Helper()
	ts := now()
	u := &entities.User{Email: email, Name: "User " + email, PasswordHash: "$2a$04$hash", CreatedAt: ts, UpdatedAt: ts}
	require.NoError(t, store.Users().Create(context.Background(), u))
	require.NotEmpty(t, u.ID)
	return u
}

func createTask(t *testing.T, store repository.Store, owner, title string, at time.Time) *entities.Task {
	t.Helper()
	task := &entities.Task{Title: title, Description: "about " + title, UserID: owner, CreatedAt: at, UpdatedAt: at}
	require.NoError(t, store.Tasks().Create(context.Background(), task))
	require.NotEmpty(t, task.ID)
	return task
}

func testUserCreateAndFind(t *testing.T, store repository.Store) {
	ctx := context.Background()
	u := createUser(t, store, "alice@example.com")

	byEmail, err := store.Users().FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, u.Name, byEmail.Name)
	assert.Equal(t, u.PasswordHash, byEmail.PasswordHash)

	byID, err := store.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)
}

func testUserDuplicateEmail(t *testing.T, store repository.Store) {
	createUser(t, store, "dup@example.com")

	ts := now()
	err := store.Users().Create(context.Background(), &entities.User{
		Email: "dup@example.com", Name: "Other", PasswordHash: "x", CreatedAt: ts, UpdatedAt: ts,
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func testUserNotFound(t *testing.T, store repository.Store) {
	ctx := context.Background()

	_, err := store.Users().FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = store.Users().FindByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func testTaskOwnership(t *testing.T, store repository.Store) {
	ctx := context.Background()
	alice := createUser(t, store, "a@example.com")
	bob := createUser(t, store, "b@example.com")
	task := createTask(t, store, alice.ID, "alice's", now())

	bobs, err := store.Tasks().ListByOwner(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobs)

	_, err = store.Tasks().FindOwned(ctx, task.ID, bob.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = store.Tasks().Update(ctx, &entities.Task{ID: task.ID, UserID: bob.ID, Title: "hijack", UpdatedAt: now()})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = store.Tasks().Delete(ctx, task.ID, bob.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	got, err := store.Tasks().FindOwned(ctx, task.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice's", got.Title)
	assert.Equal(t, alice.ID, got.UserID)
}

func testTaskListOrder(t *testing.T, store repository.Store) {
	ctx := context.Background()
	owner := createUser(t, store, "order@example.com")
	base := now()
	first := createTask(t, store, owner.ID, "first", base)
	second := createTask(t, store, owner.ID, "second", base.Add(time.Second))
	third := createTask(t, store, owner.ID, "third", base.Add(2*time.Second))

	tasks, err := store.Tasks().ListByOwner(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, []string{first.ID, second.ID, third.ID}, []string{tasks[0].ID, tasks[1].ID, tasks[2].ID})
}

func testTaskUpdateAndDelete(t *testing.T, store repository.Store) {
	ctx := context.Background()
	owner := createUser(t, store, "crud@example.com")
	task := createTask(t, store, owner.ID, "title", now())

	task.Description = "changed"
	task.UpdatedAt = now().Add(time.Minute)
	require.NoError(t, store.Tasks().Update(ctx, task))

	got, err := store.Tasks().FindOwned(ctx, task.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, "title", got.Title)
	assert.Equal(t, "changed", got.Description)
	assert.True(t, got.UpdatedAt.Equal(task.UpdatedAt))

	require.NoError(t, store.Tasks().Delete(ctx, task.ID, owner.ID))

	_, err = store.Tasks().FindOwned(ctx, task.ID, owner.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, store.Tasks().Delete(ctx, task.ID, owner.ID), apperr.ErrNotFound)
}

func testTaskMalformedID(t *testing.T, store repository.Store) {
	ctx := context.Background()
	owner := createUser(t, store, "malformed@example.com")

	_, err := store.Tasks().FindOwned(ctx, "../../etc", owner.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, store.Tasks().Delete(ctx, "zzz", owner.ID), apperr.ErrNotFound)
}
