package http

import (
	"net/http"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
)

type RolesHandler struct {
	RoleService *service.RoleService
}

// ServeHTTP handles the list roles endpoint
//
//	@Summary	List roles
//	@Tags		Roles
//	@Produce	json
//	@Success	200	{object}	tasksdk.Response[[]tasksdk.Role]	"All roles"
//	@Failure	500	{object}	tasksdk.ErrorResponse				"Internal server error"
//	@Router		/roles [get].
func (h *RolesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roles, err := h.RoleService.ListRoles(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to fetch roles")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, success("", toRoles(roles)))
}
