package ports

import (
	"context"

	"github.com/dsalta/compliance-api/internal/core/domain"
)

// TaskEventRepository persists the task audit trail.
type TaskEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.TaskEvent) error
	// ListByTask returns events for taskID ordered by occurrence.
	ListByTask(ctx context.Context, taskID string) ([]*domain.TaskEvent, error)
}
