package tasks

import (
	"github.com/dsalta/compliance-api/internal/core/bus"
	"github.com/dsalta/compliance-api/internal/core/domain"
)

const (
	KindGetTask     bus.Kind = "task.get"
	KindListTasks   bus.Kind = "task.list"
	KindTaskHistory bus.Kind = "task.history"
)

type GetTaskByIDQuery struct {
	ID string
}

func (GetTaskByIDQuery) Kind() bus.Kind { return KindGetTask }

// ListTasksQuery lists tasks, optionally narrowed by Filter.
type ListTasksQuery struct {
	Filter domain.TaskFilter
}

func (ListTasksQuery) Kind() bus.Kind { return KindListTasks }

type TaskHistoryQuery struct {
	TaskID string
}

func (TaskHistoryQuery) Kind() bus.Kind { return KindTaskHistory }

// AllKinds lists every command and query kind the task handlers serve.
var AllKinds = []bus.Kind{
	KindCreateTask,
	KindUpdateTask,
	KindDeleteTask,
	KindGetTask,
	KindListTasks,
	KindTaskHistory,
}
