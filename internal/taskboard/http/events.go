package http

import (
	"net/http"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/notify"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/service"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

// TaskEventsHandler streams a task's events over a websocket. Subscribing
// needs the same permission as viewing the task.
type TaskEventsHandler struct {
	TaskService *service.TaskService
	Hub         *notify.Hub
}

// ServeHTTP upgrades to a websocket subscribed to the task channel.
//
//	@Summary		Task event stream
//	@Description	Websocket. Each frame is a tasksdk.TaskEvent; "task.status.changed" is sent when the status changes. Browsers may pass the token as access_token.
//	@Tags			Tasks
//	@Param			id				path		string				true	"Task ID"
//	@Param			access_token	query		string				false	"Bearer token for clients that cannot set headers"
//	@Success		101				{object}	tasksdk.TaskEvent	"Switching protocols"
//	@Failure		403				{object}	tasksdk.ErrorResponse	"Not the creator"
//	@Failure		404				{object}	tasksdk.ErrorResponse	"Unknown task"
//	@Security		BearerAuth
//	@Router			/tasks/{id}/events [get].
func (h *TaskEventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	// Serve answers the handshake itself when the upgrade fails.
	if err := h.Hub.Serve(w, r, domain.TaskChannel(task.ID)); err != nil {
		slogx.FromContext(r.Context()).Info("task event stream ended", "task_id", task.ID, "error", err)
	}
}
