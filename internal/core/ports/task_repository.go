package ports

import (
	"context"

	"github.com/dsalta/compliance-api/internal/core/domain"
)

// TaskRepository defines persistence operations for tasks. Every lookup by id
// returns domain.ErrTaskNotFound when no record matches.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	// FindAll returns tasks matching every set field of filter, oldest first.
	FindAll(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error)
	// Update replaces the stored task with t.
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}
