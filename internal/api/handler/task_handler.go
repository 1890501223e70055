package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dsalta/compliance-api/internal/core/ports"
)

// TaskHandler handles HTTP requests for compliance tasks. Role checks are
// applied by the router before any method here runs.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create handles POST /tasks.
//
// @Summary      Create a compliance task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task fields"
// @Success      201   {object}  Envelope{data=domain.Task}
// @Failure      400   {object}  Envelope
// @Failure      401   {object}  Envelope
// @Failure      403   {object}  Envelope
// @Router       /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req createTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.service.CreateTask(c.Request().Context(), toCreateInput(req))
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Task created successfully", task)
}

// List handles GET /tasks.
//
// @Summary      List compliance tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        framework  query     string  false  "Filter by framework"
// @Param        category   query     string  false  "Filter by category"
// @Success      200        {object}  Envelope{data=[]domain.Task}
// @Failure      401        {object}  Envelope
// @Router       /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	var q listTasksQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return newValidationError("Invalid query parameters")
	}

	tasks, err := h.service.ListTasks(c.Request().Context(), toTaskFilter(q))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Tasks retrieved successfully", tasks)
}

// Get handles GET /tasks/:id.
//
// @Summary      Get a compliance task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id (UUID)"
// @Success      200  {object}  Envelope{data=domain.Task}
// @Failure      400  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	task, err := h.service.GetTask(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Task retrieved successfully", task)
}

// Update handles PUT /tasks/:id.
//
// @Summary      Update a compliance task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task id (UUID)"
// @Param        body  body      updateTaskRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=domain.Task}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateTaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	task, err := h.service.UpdateTask(c.Request().Context(), id, toTaskChanges(req))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Task updated successfully", task)
}

// Delete handles DELETE /tasks/:id. Admin only.
//
// @Summary      Delete a compliance task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id (UUID)"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteTask(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Task deleted successfully", nil)
}

// History handles GET /tasks/:id/history. Admin only.
//
// @Summary      List the audit trail of a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id (UUID)"
// @Success      200  {object}  Envelope{data=[]domain.TaskEvent}
// @Failure      403  {object}  Envelope
// @Router       /tasks/{id}/history [get]
func (h *TaskHandler) History(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	events, err := h.service.TaskHistory(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Task history retrieved successfully", events)
}
