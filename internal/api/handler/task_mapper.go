package handler

import (
	"github.com/dsalta/compliance-api/internal/core/domain"
	"github.com/dsalta/compliance-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createTaskRequest) ports.CreateTaskInput {
	return ports.CreateTaskInput{
		Name:        req.Name,
		Description: req.Description,
		Framework:   req.Framework,
		Category:    req.Category,
		Status:      domain.TaskStatus(req.Status),
	}
}

func toTaskChanges(req updateTaskRequest) domain.TaskChanges {
	changes := domain.TaskChanges{
		Name:        req.Name,
		Description: req.Description,
		Framework:   req.Framework,
		Category:    req.Category,
	}
	if req.Status != nil {
		st := domain.TaskStatus(*req.Status)
		changes.Status = &st
	}
	return changes
}

func toTaskFilter(q listTasksQuery) domain.TaskFilter {
	return domain.TaskFilter{Framework: q.Framework, Category: q.Category}
}
