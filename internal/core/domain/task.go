package domain

import (
	"fmt"
	"time"
)

// TaskStatus is a free-form enumerated field; no transition between values is
// rejected.
type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// ParseTaskStatus converts text into a TaskStatus. An empty string yields
// TaskStatusOpen.
func ParseTaskStatus(s string) (TaskStatus, error) {
	if s == "" {
		return TaskStatusOpen, nil
	}
	st := TaskStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid task status: %s", s)
	}
	return st, nil
}

// Task is a single compliance work item.
type Task struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Framework   string     `json:"framework"`
	Category    string     `json:"category"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskFilter narrows a task listing. Empty fields do not filter; set fields
// must all match.
type TaskFilter struct {
	Framework string
	Category  string
}

// Matches reports whether t satisfies every set field of f.
func (f TaskFilter) Matches(t *Task) bool {
	if f.Framework != "" && t.Framework != f.Framework {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	return true
}

// TaskChanges holds a partial update. Nil fields are left untouched.
type TaskChanges struct {
	Name        *string
	Description *string
	Framework   *string
	Category    *string
	Status      *TaskStatus
}

// Empty reports whether no field is set.
func (c TaskChanges) Empty() bool {
	return c.Name == nil && c.Description == nil && c.Framework == nil && c.Category == nil && c.Status == nil
}

// Apply copies every set field of c onto t and bumps UpdatedAt.
func (t *Task) Apply(c TaskChanges, now time.Time) {
	if c.Name != nil {
		t.Name = *c.Name
	}
	if c.Description != nil {
		d := *c.Description
		t.Description = &d
	}
	if c.Framework != nil {
		t.Framework = *c.Framework
	}
	if c.Category != nil {
		t.Category = *c.Category
	}
	if c.Status != nil {
		t.Status = *c.Status
	}
	t.UpdatedAt = now
}
