package ports

import (
	"context"

	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/core/domain"
)

// CreateTaskInput carries the fields of a new task. DueDate is the raw
// client value; the service parses it.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     string
	Category    string
}

// UpdateTaskInput carries a partial update. Nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	DueDate     *string
	Category    *string
	Completed   *bool
}

// TaskService defines the owner-scoped task use cases.
type TaskService interface {
	List(ctx context.Context, user *domain.User) ([]*domain.Task, error)
	Search(ctx context.Context, user *domain.User, query string) ([]*domain.Task, error)
	Get(ctx context.Context, user *domain.User, id string) (*domain.Task, error)
	Create(ctx context.Context, user *domain.User, in CreateTaskInput) (*domain.Task, error)
	Update(ctx context.Context, user *domain.User, id string, in UpdateTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, user *domain.User, id string) error
	Toggle(ctx context.Context, user *domain.User, id string) (*domain.Task, error)
}
