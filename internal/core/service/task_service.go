package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/core/domain"
	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/core/ports"
)

// TaskService implements the owner-scoped task use cases. Every lookup is
// filtered by the caller's user ID, so foreign tasks surface as
// domain.ErrTaskNotFound.
type TaskService struct {
	repo ports.TaskRepository
	log  zerolog.Logger
}

func NewTaskService(repo ports.TaskRepository, log zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, log: log}
}

// List returns the user's tasks, newest first. No tasks is an empty slice.
func (s *TaskService) List(ctx context.Context, user *domain.User) ([]*domain.Task, error) {
	return s.find(ctx, ports.TaskFilter{UserID: user.ID})
}

// Search returns the user's tasks whose title or description contains query.
func (s *TaskService) Search(ctx context.Context, user *domain.User, query string) ([]*domain.Task, error) {
	return s.find(ctx, ports.TaskFilter{UserID: user.ID, Query: strings.TrimSpace(query)})
}

func (s *TaskService) find(ctx context.Context, filter ports.TaskFilter) ([]*domain.Task, error) {
	tasks, err := s.repo.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []*domain.Task{}
	}
	return tasks, nil
}

// Get returns one of the user's tasks.
func (s *TaskService) Get(ctx context.Context, user *domain.User, id string) (*domain.Task, error) {
	return s.repo.FindByID(ctx, id, user.ID)
}

func (s *TaskService) Create(ctx context.Context, user *domain.User, in ports.CreateTaskInput) (*domain.Task, error) {
	task, err := newTask(in)
	if err != nil {
		return nil, err
	}
	task.UserID = user.ID

	if err := s.repo.Create(ctx, task); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("failed to create task")
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.log.Info().Str("task_id", task.ID).Str("user_id", user.ID).Msg("task created")
	return task, nil
}

// Update applies only the supplied fields of in.
func (s *TaskService) Update(ctx context.Context, user *domain.User, id string, in ports.UpdateTaskInput) (*domain.Task, error) {
	if err := validateUpdate(in); err != nil {
		return nil, err
	}

	task, err := s.repo.FindByID(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}

	if err := applyUpdate(task, in); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, user *domain.User, id string) error {
	if _, err := s.repo.FindByID(ctx, id, user.ID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, user.ID); err != nil {
		return err
	}

	s.log.Info().Str("task_id", id).Str("user_id", user.ID).Msg("task deleted")
	return nil
}

// Toggle flips the completion flag. Two toggles restore the original state.
func (s *TaskService) Toggle(ctx context.Context, user *domain.User, id string) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}

	task.Toggle()
	if err := s.repo.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	return task, nil
}
