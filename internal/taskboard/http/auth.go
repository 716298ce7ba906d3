package http

import (
	"net/http"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/tasksdk"
)

type AuthHandler struct {
	UserService *service.UserService
}

// HandleRegister creates an account and signs it in.
//
//	@Summary		Register
//	@Description	Creates a user holding the "user" role and returns a bearer token for it.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tasksdk.RegisterRequest						true	"Account details"
//	@Success		201		{object}	tasksdk.Response[tasksdk.AuthData]	"User and token"
//	@Failure		422		{object}	tasksdk.ErrorResponse				"Validation failed"
//	@Failure		429		{object}	tasksdk.ErrorResponse				"Rate limited"
//	@Failure		500		{object}	tasksdk.ErrorResponse				"Internal server error"
//	@Router			/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess, err := h.UserService.Register(r.Context(), service.RegisterInput{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		writeServiceError(w, r, err, "Registration failed")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, success("User registered successfully", toAuthData(sess)))
}

// HandleLogin exchanges credentials for a bearer token.
//
//	@Summary		Log in
//	@Description	Every successful login issues a new token; earlier tokens stay valid until they expire or are revoked.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		tasksdk.LoginRequest				true	"Credentials"
//	@Success		200		{object}	tasksdk.Response[tasksdk.AuthData]	"User and token"
//	@Failure		401		{object}	tasksdk.ErrorResponse				"Invalid login credentials"
//	@Failure		422		{object}	tasksdk.ErrorResponse				"Validation failed"
//	@Failure		429		{object}	tasksdk.ErrorResponse				"Rate limited"
//	@Router			/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req tasksdk.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sess, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err, "Login failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, success("Login successful", toAuthData(sess)))
}

// HandleLogout revokes the token the request was made with.
//
//	@Summary	Log out
//	@Tags		Auth
//	@Produce	json
//	@Success	200	{object}	tasksdk.MessageResponse	"Logged out"
//	@Failure	401	{object}	tasksdk.ErrorResponse	"Missing or invalid token"
//	@Security	BearerAuth
//	@Router		/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeUnauthenticated(w)
		return
	}

	if err := h.UserService.Logout(r.Context(), actor); err != nil {
		writeServiceError(w, r, err, "Logout failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, successMessage("Logged out successfully"))
}
