package repository

import (
	"context"

	"fleet/internal/domain"
)

// UserRepository defines the persistence operations for users.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetAll retrieves all users.
	GetAll(ctx context.Context) ([]*domain.User, error)

	// Update updates an existing user. The password hash is only written
	// when non-empty.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user.
	Delete(ctx context.Context, id string) error
}
