package domain

import "time"

// TaskAction names the command that produced a TaskEvent.
type TaskAction string

const (
	TaskCreated TaskAction = "created"
	TaskUpdated TaskAction = "updated"
	TaskDeleted TaskAction = "deleted"
)

// TaskEvent is an append-only audit record of a successful task command.
type TaskEvent struct {
	ID            string     `json:"id"`
	TaskID        string     `json:"taskId"`
	Action        TaskAction `json:"action"`
	ActorID       string     `json:"actorId"`
	ActorUsername string     `json:"actorUsername"`
	OccurredAt    time.Time  `json:"occurredAt"`
}
