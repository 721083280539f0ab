// internal/services/task_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskpilot/internal/models"
	"taskpilot/internal/repositories"
)

// ChangeNotifier receives a signal after every successful mutation of an owner's tasks.
type ChangeNotifier interface {
	TasksChanged(ownerID string, change models.TaskChange)
}

// TaskService is the owner-scoped task API used by the handlers.
type TaskService interface {
	List(ctx context.Context, ownerID string) ([]models.Task, error)
	Create(ctx context.Context, ownerID string, input []models.NewTask) ([]models.Task, error)
	Update(ctx context.Context, ownerID, taskID string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, ownerID, taskID string) error
	Stats(ctx context.Context, ownerID string) (*models.TaskStatistics, error)
}

type taskService struct {
	repo     repositories.TaskRepository
	notifier ChangeNotifier
	now      func() time.Time
}

type TaskServiceOption func(*taskService)

func WithClock(now func() time.Time) TaskServiceOption {
	return func(s *taskService) { s.now = now }
}

// NewTaskService creates a new instance of TaskService. notifier may be nil.
func NewTaskService(repo repositories.TaskRepository, notifier ChangeNotifier, opts ...TaskServiceOption) TaskService {
	s := &taskService{repo: repo, notifier: notifier, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamps are stored with microsecond precision
func (s *taskService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *taskService) List(ctx context.Context, ownerID string) ([]models.Task, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	tasks, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", ErrStore, err)
	}
	return tasks, nil
}

func (s *taskService) Create(ctx context.Context, ownerID string, input []models.NewTask) ([]models.Task, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	if len(input) == 0 {
		return nil, fmt.Errorf("%w: tasks array is required", ErrValidation)
	}

	now := s.timestamp()
	tasks := make([]models.Task, 0, len(input))
	for i, in := range input {
		if strings.TrimSpace(in.Title) == "" {
			return nil, fmt.Errorf("%w: task %d has an empty title", ErrValidation, i)
		}
		category := in.Category
		if strings.TrimSpace(category) == "" {
			category = models.DefaultCategory
		}
		tasks = append(tasks, models.Task{
			ID:          uuid.NewString(),
			UserID:      ownerID,
			Title:       in.Title,
			Description: in.Description,
			Category:    category,
			Completed:   false,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := s.repo.CreateBatch(ctx, tasks); err != nil {
		return nil, fmt.Errorf("%w: create: %v", ErrStore, err)
	}
	s.notify(ownerID, models.TaskChangeCreated, now, taskIDs(tasks)...)
	return tasks, nil
}

func (s *taskService) Update(ctx context.Context, ownerID, taskID string, patch models.TaskPatch) (*models.Task, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	// malformed ids cannot exist, report them like any other missing task
	if _, err := uuid.Parse(taskID); err != nil {
		return nil, ErrNotFound
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		category := models.DefaultCategory
		patch.Category = &category
	}

	now := s.timestamp()
	task, err := s.repo.Update(ctx, ownerID, taskID, patch, now)
	if err != nil {
		if errors.Is(err, repositories.ErrTaskNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: update: %v", ErrStore, err)
	}
	s.notify(ownerID, models.TaskChangeUpdated, now, task.ID)
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, ownerID, taskID string) error {
	if ownerID == "" {
		return ErrUnauthorized
	}
	if _, err := uuid.Parse(taskID); err != nil {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, ownerID, taskID); err != nil {
		if errors.Is(err, repositories.ErrTaskNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: delete: %v", ErrStore, err)
	}
	s.notify(ownerID, models.TaskChangeDeleted, s.timestamp(), taskID)
	return nil
}

// Stats aggregates one grouped read, so totals and categories always agree.
func (s *taskService) Stats(ctx context.Context, ownerID string) (*models.TaskStatistics, error) {
	if ownerID == "" {
		return nil, ErrUnauthorized
	}
	counts, err := s.repo.CategoryCounts(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: stats: %v", ErrStore, err)
	}

	stats := &models.TaskStatistics{Categories: make(map[string]models.CategoryStats, len(counts))}
	for _, c := range counts {
		stats.Total += c.Total
		stats.Completed += c.Completed
		cs := stats.Categories[c.Category]
		cs.Total += c.Total
		cs.Completed += c.Completed
		stats.Categories[c.Category] = cs
	}
	stats.Pending = stats.Total - stats.Completed
	return stats, nil
}

func (s *taskService) notify(ownerID string, kind models.TaskChangeType, at time.Time, ids ...string) {
	if s.notifier == nil {
		return
	}
	s.notifier.TasksChanged(ownerID, models.TaskChange{Type: kind, TaskIDs: ids, At: at})
}

func taskIDs(tasks []models.Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}
