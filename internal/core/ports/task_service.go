package ports

import (
	"context"

	"github.com/dsalta/compliance-api/internal/core/domain"
)

// CreateTaskInput carries the fields of a new task. An empty Status defaults
// to open.
type CreateTaskInput struct {
	Name        string
	Description *string
	Framework   string
	Category    string
	Status      domain.TaskStatus
}

// TaskService defines use-case operations for tasks.
type TaskService interface {
	CreateTask(ctx context.Context, in CreateTaskInput) (*domain.Task, error)
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, changes domain.TaskChanges) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	TaskHistory(ctx context.Context, id string) ([]*domain.TaskEvent, error)
}

// AuditSink accepts task events for asynchronous persistence.
type AuditSink interface {
	Enqueue(event domain.TaskEvent)
}
