package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"tasks-be/internal/apperr"
	"tasks-be/internal/cache"
	"tasks-be/internal/entities"
	"tasks-be/internal/models"
	"tasks-be/internal/repository"
)

var errMissingTitle = fmt.Errorf("%w: Please provide a title", apperr.ErrValidation)

// TaskService defines owner-scoped task operations. ownerID is always the
// authenticated caller.
type TaskService interface {
	Create(ctx context.Context, ownerID string, req *models.CreateTaskRequest) (*entities.Task, error)
	List(ctx context.Context, ownerID string) ([]*entities.Task, error)
	Update(ctx context.Context, ownerID, id string, req *models.UpdateTaskRequest) (*entities.Task, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type taskService struct {
	repo     repository.TaskRepository
	cache    cache.Cache
	cacheTTL time.Duration
	log      *slog.Logger
	now      func() time.Time
}

// NewTaskService creates a new task service; cacheClient may be nil
func NewTaskService(repo repository.TaskRepository, cacheClient cache.Cache, cacheTTL time.Duration, log *slog.Logger) TaskService {
	return &taskService{
		repo:     repo,
		cache:    cacheClient,
		cacheTTL: cacheTTL,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *taskService) Create(ctx context.Context, ownerID string, req *models.CreateTaskRequest) (*entities.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errMissingTitle
	}

	now := s.now()
	task := &entities.Task{
		Title:       title,
		Description: req.Description,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	s.invalidate(ctx, ownerID)
	return task, nil
}

func (s *taskService) List(ctx context.Context, ownerID string) ([]*entities.Task, error) {
	// Fills are keyed by the generation read before the store query. Writes
	// bump it, so a fill racing a write lands on a key nobody reads again.
	gen, cached := s.generation(ctx, ownerID)
	if cached {
		var tasks []*entities.Task
		err := s.cache.GetJSON(ctx, listKey(ownerID, gen), &tasks)
		if err == nil {
			return tasks, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.log.WarnContext(ctx, "task cache read failed", "error", err)
		}
	}

	tasks, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	if cached {
		if err := s.cache.SetJSON(ctx, listKey(ownerID, gen), tasks, s.cacheTTL); err != nil {
			s.log.WarnContext(ctx, "task cache write failed", "error", err)
		}
	}
	return tasks, nil
}

func (s *taskService) Update(ctx context.Context, ownerID, id string, req *models.UpdateTaskRequest) (*entities.Task, error) {
	task, err := s.ownedTask(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, errMissingTitle
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	task.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, task); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	s.invalidate(ctx, ownerID)
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.ownedTask(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	s.invalidate(ctx, ownerID)
	return nil
}

// ownedTask is the single fetch-owned-or-404 lookup behind Update and Delete.
// A task that exists but belongs to someone else is indistinguishable from a
// missing one.
func (s *taskService) ownedTask(ctx context.Context, ownerID, id string) (*entities.Task, error) {
	task, err := s.repo.FindOwned(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// generation reports the owner's current list generation. false means the
// cache is off or unreadable and the store should be used directly.
func (s *taskService) generation(ctx context.Context, ownerID string) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	gen, err := s.cache.Counter(ctx, genKey(ownerID))
	if err != nil {
		s.log.WarnContext(ctx, "task cache generation read failed", "error", err)
		return 0, false
	}
	return gen, true
}

func (s *taskService) invalidate(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	gen, err := s.cache.Incr(ctx, genKey(ownerID))
	if err != nil {
		s.log.WarnContext(ctx, "task cache invalidation failed", "error", err)
		return
	}
	if err := s.cache.Delete(ctx, listKey(ownerID, gen-1)); err != nil {
		s.log.WarnContext(ctx, "task cache cleanup failed", "error", err)
	}
}

func genKey(ownerID string) string {
	return "tasks:gen:" + ownerID
}

func listKey(ownerID string, gen int64) string {
	return "tasks:owner:" + ownerID + ":" + strconv.FormatInt(gen, 10)
}
