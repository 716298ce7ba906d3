package http

import (
	"net/http"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
)

type UserHandler struct {
	UserService *service.UserService
}

// HandleProfile returns the caller.
//
//	@Summary	Current user
//	@Tags		Users
//	@Produce	json
//	@Success	200	{object}	tasksdk.Response[tasksdk.User]	"The caller with roles"
//	@Failure	401	{object}	tasksdk.ErrorResponse			"Missing or invalid token"
//	@Security	BearerAuth
//	@Router		/user [get].
func (h *UserHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	acct, err := h.UserService.Profile(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err, "Failed to fetch user")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, success("", toUser(acct)))
}

// HandleUpdateProfile changes the caller's name and/or password.
//
//	@Summary		Update profile
//	@Description	Changing the password requires current_password and password_confirmation.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tasksdk.UpdateProfileRequest	true	"Fields to change"
//	@Success		200		{object}	tasksdk.Response[tasksdk.User]	"Updated user"
//	@Failure		401		{object}	tasksdk.ErrorResponse			"Missing or invalid token"
//	@Failure		422		{object}	tasksdk.ErrorResponse			"Validation failed"
//	@Security		BearerAuth
//	@Router			/user/profile [put].
func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	var req tasksdk.UpdateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	acct, err := h.UserService.UpdateProfile(r.Context(), actor, service.ProfileInput{
		Name:                 req.Name,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
		CurrentPassword:      req.CurrentPassword,
	})
	if err != nil {
		writeServiceError(w, r, err, "Failed to update profile")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, success("Profile updated successfully", toUser(acct)))
}
