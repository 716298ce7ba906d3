package http

import (
	"net/http"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
)

type TasksHandler struct {
	TaskService *service.TaskService
}

// HandleList returns tasks matching the query filters.
//
//	@Summary		List tasks
//	@Description	Without project_id non-admins only see tasks they created.
//	@Tags			Tasks
//	@Produce		json
//	@Param			project_id	query		string							false	"Project ID"
//	@Param			status		query		string							false	"Status"	Enums(pending, in_progress, completed)
//	@Param			priority	query		string							false	"Priority"	Enums(low, medium, high)
//	@Success		200			{object}	tasksdk.Response[[]tasksdk.Task]	"Tasks"
//	@Failure		403			{object}	tasksdk.ErrorResponse			"Not the project owner"
//	@Failure		404			{object}	tasksdk.ErrorResponse			"Unknown project"
//	@Failure		422			{object}	tasksdk.ErrorResponse			"Invalid filter"
//	@Security		BearerAuth
//	@Router			/tasks [get].
func (h *TasksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	q := r.URL.Query()
	tasks, err := h.TaskService.List(r.Context(), actor, service.TaskQuery{
		ProjectID: q.Get("project_id"),
		Status:    q.Get("status"),
		Priority:  q.Get("priority"),
	})
	if err != nil {
		writeServiceError(w, r, err, "Failed to fetch tasks")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, success("", toTasks(tasks)))
}

// HandleCreate files a task under a project the caller may add to.
//
//	@Summary	Create task
//	@Tags		Tasks
//	@Accept		json
//	@Produce	json
//	@Param		request	body		tasksdk.CreateTaskRequest		true	"Task"
//	@Success	201		{object}	tasksdk.Response[tasksdk.Task]	"Created task"
//	@Failure	403		{object}	tasksdk.ErrorResponse			"Not the project owner"
//	@Failure	404		{object}	tasksdk.ErrorResponse			"Unknown project"
//	@Failure	422		{object}	tasksdk.ErrorResponse			"Validation failed"
//	@Security	BearerAuth
//	@Router		/tasks [post].
func (h *TasksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	var req tasksdk.CreateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := h.TaskService.Create(r.Context(), actor, service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		ProjectID:   req.ProjectID,
	})
	if err != nil {
		writeServiceError(w, r, err, "Failed to create task")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, success("Task created successfully", toTask(task)))
}

// HandleGet returns one task.
//
//	@Summary	Get task
//	@Tags		Tasks
//	@Produce	json
//	@Param		id	path		string							true	"Task ID"
//	@Success	200	{object}	tasksdk.Response[tasksdk.Task]	"Task"
//	@Failure	403	{object}	tasksdk.ErrorResponse			"Not the creator"
//	@Failure	404	{object}	tasksdk.ErrorResponse			"Unknown task"
//	@Security	BearerAuth
//	@Router		/tasks/{id} [get].
func (h *TasksHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	task, err := h.TaskService.Get(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "Failed to fetch task")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, success("", toTask(task)))
}

// HandleUpdate changes the fields present in the body. A status change is
// pushed to the task's event subscribers.
//
//	@Summary	Update task
//	@Tags		Tasks
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string							true	"Task ID"
//	@Param		request	body		tasksdk.UpdateTaskRequest		true	"Fields to change"
//	@Success	200		{object}	tasksdk.Response[tasksdk.Task]	"Updated task"
//	@Failure	403		{object}	tasksdk.ErrorResponse			"Not the creator, or not allowed to move"
//	@Failure	404		{object}	tasksdk.ErrorResponse			"Unknown task or project"
//	@Failure	422		{object}	tasksdk.ErrorResponse			"Validation failed"
//	@Security	BearerAuth
//	@Router		/tasks/{id} [put].
func (h *TasksHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	var req tasksdk.UpdateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := h.TaskService.Update(r.Context(), actor, r.PathValue("id"), service.TaskPatchInput{
		Title:       field(req.Title),
		Description: field(req.Description),
		Status:      field(req.Status),
		Priority:    field(req.Priority),
		DueDate:     field(req.DueDate),
		ProjectID:   field(req.ProjectID),
	})
	if err != nil {
		writeServiceError(w, r, err, "Failed to update task")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, success("Task updated successfully", toTask(task)))
}

// HandleDelete removes a task.
//
//	@Summary	Delete task
//	@Tags		Tasks
//	@Produce	json
//	@Param		id	path		string					true	"Task ID"
//	@Success	200	{object}	tasksdk.MessageResponse	"Deleted"
//	@Failure	403	{object}	tasksdk.ErrorResponse	"Not the creator"
//	@Failure	404	{object}	tasksdk.ErrorResponse	"Unknown task"
//	@Security	BearerAuth
//	@Router		/tasks/{id} [delete].
func (h *TasksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	if err := h.TaskService.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err, "Failed to delete task")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, successMessage("Task deleted successfully"))
}
