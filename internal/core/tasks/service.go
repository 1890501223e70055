package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dsalta/compliance-api/internal/core/bus"
	"github.com/dsalta/compliance-api/internal/core/domain"
	"github.com/dsalta/compliance-api/internal/core/ports"
)

var _ ports.TaskService = (*Service)(nil)

// Service implements ports.TaskService by dispatching commands and queries on
// the bus. Successful commands are reported to the audit sink.
type Service struct {
	bus   *bus.Bus
	audit ports.AuditSink
	log   zerolog.Logger
}

// NewService returns a Service. audit may be nil.
func NewService(b *bus.Bus, audit ports.AuditSink, log zerolog.Logger) *Service {
	return &Service{bus: b, audit: audit, log: log}
}

func (s *Service) CreateTask(ctx context.Context, in ports.CreateTaskInput) (*domain.Task, error) {
	task, err := bus.Dispatch[*domain.Task](ctx, s.bus, CreateTaskCommand{
		Name:        in.Name,
		Description: in.Description,
		Framework:   in.Framework,
		Category:    in.Category,
		Status:      in.Status,
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, task.ID, domain.TaskCreated)
	s.log.Info().Str("task_id", task.ID).Str("framework", task.Framework).Msg("task created")
	return task, nil
}

func (s *Service) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	return bus.Dispatch[[]*domain.Task](ctx, s.bus, ListTasksQuery{Filter: filter})
}

func (s *Service) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return bus.Dispatch[*domain.Task](ctx, s.bus, GetTaskByIDQuery{ID: id})
}

func (s *Service) UpdateTask(ctx context.Context, id string, changes domain.TaskChanges) (*domain.Task, error) {
	task, err := bus.Dispatch[*domain.Task](ctx, s.bus, UpdateTaskCommand{ID: id, Changes: changes})
	if err != nil {
		return nil, err
	}

	s.record(ctx, id, domain.TaskUpdated)
	return task, nil
}

func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if _, err := bus.Dispatch[struct{}](ctx, s.bus, DeleteTaskCommand{ID: id}); err != nil {
		return err
	}

	s.record(ctx, id, domain.TaskDeleted)
	s.log.Info().Str("task_id", id).Msg("task deleted")
	return nil
}

func (s *Service) TaskHistory(ctx context.Context, id string) ([]*domain.TaskEvent, error) {
	return bus.Dispatch[[]*domain.TaskEvent](ctx, s.bus, TaskHistoryQuery{TaskID: id})
}

func (s *Service) record(ctx context.Context, taskID string, action domain.TaskAction) {
	if s.audit == nil {
		return
	}
	evt := domain.TaskEvent{
		ID:         uuid.NewString(),
		TaskID:     taskID,
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}
	if p, ok := domain.PrincipalFromContext(ctx); ok {
		evt.ActorID = p.ID
		evt.ActorUsername = p.Username
	}
	s.audit.Enqueue(evt)
}
