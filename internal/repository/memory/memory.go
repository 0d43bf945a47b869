// Package memory is a process-local Store used by tests and by
// DATABASE_URL=memory:// for local development.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"tasks-be/internal/apperr"
	"tasks-be/internal/entities"
	"tasks-be/internal/repository"
)

var errTaskNotFound = fmt.Errorf("%w: Task not found", apperr.ErrNotFound)

type Store struct {
	mu      sync.RWMutex
	users   map[string]*entities.User
	byEmail map[string]string
	tasks   map[string]*entities.Task
	order   []string // task ids in insertion order
}

func New() *Store {
	return &Store{
		users:   make(map[string]*entities.User),
		byEmail: make(map[string]string),
		tasks:   make(map[string]*entities.Task),
	}
}

func (s *Store) Users() repository.UserRepository { return userRepo{s} }
func (s *Store) Tasks() repository.TaskRepository { return taskRepo{s} }

func (s *Store) Ping(context.Context) error  { return nil }
func (s *Store) Close(context.Context) error { return nil }

// TaskCount reports how many tasks are stored across all owners.
func (s *Store) TaskCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// UserCount reports how many users are stored.
func (s *Store) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.byEmail[user.Email]; exists {
		return fmt.Errorf("%w: User already exists", apperr.ErrConflict)
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	cp := *user
	r.s.users[cp.ID] = &cp
	r.s.byEmail[cp.Email] = cp.ID
	return nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byEmail[email]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *r.s.users[id]
	return &cp, nil
}

func (r userRepo) FindByID(_ context.Context, id string) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type taskRepo struct{ s *Store }

func (r taskRepo) Create(_ context.Context, task *entities.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	cp := *task
	r.s.tasks[cp.ID] = &cp
	r.s.order = append(r.s.order, cp.ID)
	return nil
}

func (r taskRepo) ListByOwner(_ context.Context, ownerID string) ([]*entities.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tasks := []*entities.Task{}
	for _, id := range r.s.order {
		t, ok := r.s.tasks[id]
		if !ok || t.UserID != ownerID {
			continue
		}
		cp := *t
		tasks = append(tasks, &cp)
	}
	return tasks, nil
}

func (r taskRepo) FindOwned(_ context.Context, id, ownerID string) (*entities.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok || t.UserID != ownerID {
		return nil, errTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (r taskRepo) Update(_ context.Context, task *entities.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tasks[task.ID]
	if !ok || t.UserID != task.UserID {
		return errTaskNotFound
	}
	t.Title = task.Title
	t.Description = task.Description
	t.UpdatedAt = task.UpdatedAt
	return nil
}

func (r taskRepo) Delete(_ context.Context, id, ownerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tasks[id]
	if !ok || t.UserID != ownerID {
		return errTaskNotFound
	}
	delete(r.s.tasks, id)
	for i, oid := range r.s.order {
		if oid == id {
			r.s.order = append(r.s.order[:i], r.s.order[i+1:]...)
			break
		}
	}
	return nil
}
