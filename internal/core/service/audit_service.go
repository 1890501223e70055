package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dsalta/compliance-api/internal/core/domain"
	"github.com/dsalta/compliance-api/internal/core/ports"
)

// AuditService persists task events handed over by the audit dispatcher.
type AuditService struct {
	events ports.TaskEventRepository
	log    zerolog.Logger
}

func NewAuditService(events ports.TaskEventRepository, log zerolog.Logger) *AuditService {
	return &AuditService{events: events, log: log}
}

// Record stores a single event. Failures are returned to the caller and not
// retried.
func (s *AuditService) Record(ctx context.Context, evt domain.TaskEvent) error {
	if evt.TaskID == "" || evt.Action == "" {
		return fmt.Errorf("record audit event: missing task id or action")
	}
	if err := s.events.InsertEvent(ctx, &evt); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}

	s.log.Debug().
		Str("task_id", evt.TaskID).
		Str("action", string(evt.Action)).
		Str("actor", evt.ActorUsername).
		Msg("audit event recorded")
	return nil
}
