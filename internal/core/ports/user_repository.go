package ports

import (
	"context"

	"github.com/dsalta/compliance-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	// FindByUsername returns domain.ErrUserNotFound when absent.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByID returns domain.ErrUserNotFound when absent.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Create stores user and returns domain.ErrUserExists on a username conflict.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]*domain.User, error)
}
