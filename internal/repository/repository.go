package repository

import (
	"context"

	"tasks-be/internal/entities"
)

// UserRepository defines persistence operations for users.
// Implementations return apperr.ErrConflict on a duplicate email and
// apperr.ErrNotFound when no record matches.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindByID(ctx context.Context, id string) (*entities.User, error)
}

// TaskRepository defines persistence operations for tasks. Every lookup and
// mutation is keyed by (id, owner); a task owned by someone else is reported
// exactly like a missing one, with apperr.ErrNotFound.
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	ListByOwner(ctx context.Context, ownerID string) ([]*entities.Task, error)
	FindOwned(ctx context.Context, id, ownerID string) (*entities.Task, error)
	Update(ctx context.Context, task *entities.Task) error
	Delete(ctx context.Context, id, ownerID string) error
}

// Store bundles the repositories of one backend with its lifecycle.
type Store interface {
	Users() UserRepository
	Tasks() TaskRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
