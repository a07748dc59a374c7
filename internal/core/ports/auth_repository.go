package ports

import (
	"context"

	"github.com/MohaiminulEraj/Containerized-To-Do-App/internal/core/domain"
)

// UserRepository defines persistence operations for registered users.
type UserRepository interface {
	// Create stores a new user and returns it with its generated ID.
	// Returns domain.ErrUserExists when the email is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail returns domain.ErrUserNotFound when no user matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID returns domain.ErrUserNotFound when no user matches.
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// LoginThrottle limits repeated failed logins for the same key.
type LoginThrottle interface {
	// Allowed reports whether another attempt may be made for key.
	Allowed(ctx context.Context, key string) (bool, error)
	// Fail records a failed attempt for key.
	Fail(ctx context.Context, key string) error
	// Reset clears the failure count for key.
	Reset(ctx context.Context, key string) error
}
