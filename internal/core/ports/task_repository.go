package ports

import (
	"context"

	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/core/domain"
)

// TaskFilter narrows a listing. UserID is always set by the service layer.
type TaskFilter struct {
	UserID string
	Query  string // optional: case-insensitive match on title or description
}

// TaskRepository defines persistence operations for tasks. Every lookup is
// scoped by owner: a task owned by someone else is reported as
// domain.ErrTaskNotFound.
type TaskRepository interface {
	// Find returns the owner's tasks matching filter, newest first.
	Find(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)
	FindByID(ctx context.Context, id, userID string) (*domain.Task, error)
	// Create assigns ID and timestamps when they are empty.
	Create(ctx context.Context, task *domain.Task) error
	// Save overwrites the stored task matching (task.ID, task.UserID) and
	// refreshes UpdatedAt.
	Save(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id, userID string) error
}
