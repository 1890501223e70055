package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dsalta/compliance-api/internal/core/bus"
	"github.com/dsalta/compliance-api/internal/core/domain"
	"github.com/dsalta/compliance-api/internal/core/ports"
)

// Handlers holds one handler per task command and query. Each performs a
// single repository operation and turns a missing record into
// *domain.TaskNotFoundError.
type Handlers struct {
	tasks  ports.TaskRepository
	events ports.TaskEventRepository
	now    func() time.Time
}

func NewHandlers(tasks ports.TaskRepository, events ports.TaskEventRepository) *Handlers {
	return &Handlers{
		tasks:  tasks,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register binds every handler to b.
func (h *Handlers) Register(b *bus.Bus) {
	bus.Handle(b, h.CreateTask)
	bus.Handle(b, h.UpdateTask)
	bus.Handle(b, h.DeleteTask)
	bus.Handle(b, h.GetTask)
	bus.Handle(b, h.ListTasks)
	bus.Handle(b, h.TaskHistory)
}

func (h *Handlers) CreateTask(ctx context.Context, cmd CreateTaskCommand) (*domain.Task, error) {
	status := cmd.Status
	if status == "" {
		status = domain.TaskStatusOpen
	}
	now := h.now()
	task := &domain.Task{
		ID:          uuid.NewString(),
		Name:        cmd.Name,
		Description: cmd.Description,
		Framework:   cmd.Framework,
		Category:    cmd.Category,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

func (h *Handlers) UpdateTask(ctx context.Context, cmd UpdateTaskCommand) (*domain.Task, error) {
	task, err := h.load(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	task.Apply(cmd.Changes, h.now())
	if err := h.tasks.Update(ctx, task); err != nil {
		return nil, notFound(cmd.ID, err)
	}
	return task, nil
}

func (h *Handlers) DeleteTask(ctx context.Context, cmd DeleteTaskCommand) (struct{}, error) {
	if _, err := h.load(ctx, cmd.ID); err != nil {
		return struct{}{}, err
	}
	if err := h.tasks.Delete(ctx, cmd.ID); err != nil {
		return struct{}{}, notFound(cmd.ID, err)
	}
	return struct{}{}, nil
}

func (h *Handlers) GetTask(ctx context.Context, q GetTaskByIDQuery) (*domain.Task, error) {
	return h.load(ctx, q.ID)
}

// ListTasks never fails on an empty result.
func (h *Handlers) ListTasks(ctx context.Context, q ListTasksQuery) ([]*domain.Task, error) {
	found, err := h.tasks.FindAll(ctx, q.Filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if found == nil {
		found = []*domain.Task{}
	}
	return found, nil
}

func (h *Handlers) TaskHistory(ctx context.Context, q TaskHistoryQuery) ([]*domain.TaskEvent, error) {
	events, err := h.events.ListByTask(ctx, q.TaskID)
	if err != nil {
		return nil, fmt.Errorf("task history: %w", err)
	}
	if events == nil {
		events = []*domain.TaskEvent{}
	}
	return events, nil
}

func (h *Handlers) load(ctx context.Context, id string) (*domain.Task, error) {
	task, err := h.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(id, err)
	}
	return task, nil
}

// notFound maps the repository's not-found sentinel onto the typed error for
// id. Any other error is wrapped unchanged.
func notFound(id string, err error) error {
	if errors.Is(err, domain.ErrTaskNotFound) {
		return domain.NewTaskNotFound(id)
	}
	return fmt.Errorf("task %s: %w", id, err)
}
