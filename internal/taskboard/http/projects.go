package http

import (
	"net/http"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
)

type ProjectsHandler struct {
	ProjectService *service.ProjectService
}

// HandleList returns the caller's projects, or every project for admins.
//
//	@Summary	List projects
//	@Tags		Projects
//	@Produce	json
//	@Success	200	{object}	tasksdk.Response[[]tasksdk.Project]	"Projects"
//	@Failure	401	{object}	tasksdk.ErrorResponse				"Missing or invalid token"
//	@Failure	500	{object}	tasksdk.ErrorResponse				"Internal server error"
//	@Security	BearerAuth
//	@Router		/projects [get].
func (h *ProjectsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	projects, err := h.ProjectService.List(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err, "Failed to fetch projects")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, success("", toProjects(projects)))
}

// HandleCreate files a project owned by the caller.
//
//	@Summary	Create project
//	@Tags		Projects
//	@Accept		json
//	@Produce	json
//	@Param		request	body		tasksdk.CreateProjectRequest		true	"Project"
//	@Success	201		{object}	tasksdk.Response[tasksdk.Project]	"Created project"
//	@Failure	401		{object}	tasksdk.ErrorResponse				"Missing or invalid token"
//	@Failure	422		{object}	tasksdk.ErrorResponse				"Validation failed"
//	@Security	BearerAuth
//	@Router		/projects [post].
func (h *ProjectsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	var req tasksdk.CreateProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.ProjectService.Create(r.Context(), actor, service.ProjectInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, r, err, "Failed to create project")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, success("Project created successfully", toProject(p)))
}

// HandleGet returns a project with its tasks.
//
//	@Summary	Get project
//	@Tags		Projects
//	@Produce	json
//	@Param		id	path		string								true	"Project ID"
//	@Success	200	{object}	tasksdk.Response[tasksdk.Project]	"Project with tasks"
//	@Failure	403	{object}	tasksdk.ErrorResponse				"Not the owner"
//	@Failure	404	{object}	tasksdk.ErrorResponse				"Unknown project"
//	@Security	BearerAuth
//	@Router		/projects/{id} [get].
func (h *ProjectsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	detail, err := h.ProjectService.Get(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err, "Failed to fetch project")
		return
	}

	out := toProject(detail.Project)
	out.Tasks = toTasks(detail.Tasks)
	httpx.WriteJSON(w, http.StatusOK, success("", out))
}

// HandleUpdate changes the fields present in the body.
//
//	@Summary	Update project
//	@Tags		Projects
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string								true	"Project ID"
//	@Param		request	body		tasksdk.UpdateProjectRequest		true	"Fields to change"
//	@Success	200		{object}	tasksdk.Response[tasksdk.Project]	"Updated project"
//	@Failure	403		{object}	tasksdk.ErrorResponse				"Not the owner"
//	@Failure	404		{object}	tasksdk.ErrorResponse				"Unknown project"
//	@Failure	422		{object}	tasksdk.ErrorResponse				"Validation failed"
//	@Security	BearerAuth
//	@Router		/projects/{id} [put].
func (h *ProjectsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	var req tasksdk.UpdateProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.ProjectService.Update(r.Context(), actor, r.PathValue("id"), service.ProjectPatchInput{
		Title:       field(req.Title),
		Description: field(req.Description),
	})
	if err != nil {
		writeServiceError(w, r, err, "Failed to update project")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, success("Project updated successfully", toProject(p)))
}

// HandleDelete removes a project and its tasks.
//
//	@Summary	Delete project
//	@Tags		Projects
//	@Produce	json
//	@Param		id	path		string					true	"Project ID"
//	@Success	200	{object}	tasksdk.MessageResponse	"Deleted"
//	@Failure	403	{object}	tasksdk.ErrorResponse	"Not the owner"
//	@Failure	404	{object}	tasksdk.ErrorResponse	"Unknown project"
//	@Security	BearerAuth
//	@Router		/projects/{id} [delete].
func (h *ProjectsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	if err := h.ProjectService.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err, "Failed to delete project")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, successMessage("Project deleted successfully"))
}
