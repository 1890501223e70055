package tasks

import (
	"github.com/dsalta/compliance-api/internal/core/bus"
	"github.com/dsalta/compliance-api/internal/core/domain"
)

const (
	KindCreateTask bus.Kind = "task.create"
	KindUpdateTask bus.Kind = "task.update"
	KindDeleteTask bus.Kind = "task.delete"
)

// CreateTaskCommand carries the fields of a new task.
type CreateTaskCommand struct {
	Name        string
	Description *string
	Framework   string
	Category    string
	Status      domain.TaskStatus
}

func (CreateTaskCommand) Kind() bus.Kind { return KindCreateTask }

// UpdateTaskCommand applies Changes to the task identified by ID.
type UpdateTaskCommand struct {
	ID      string
	Changes domain.TaskChanges
}

func (UpdateTaskCommand) Kind() bus.Kind { return KindUpdateTask }

type DeleteTaskCommand struct {
	ID string
}

func (DeleteTaskCommand) Kind() bus.Kind { return KindDeleteTask }
