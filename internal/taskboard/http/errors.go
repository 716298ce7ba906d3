package http

import (
	"errors"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/service"
	"github.com/aussiebroadwan/taskboard/pkg/httpx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
)

// writeServiceError maps the service error taxonomy onto the error envelope.
// Anything unrecognised is logged and answered with fallback, never with the
// underlying error text.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var (
		verr  *service.ValidationError
		ferr  *service.ForbiddenError
		nferr *service.NotFoundError
	)

	switch {
	case errors.As(err, &verr):
		httpx.WriteError(w, http.StatusUnprocessableEntity, httpx.ErrCodeValidation, verr.Summary(), verr.Fields)
	case errors.As(err, &ferr):
		httpx.WriteError(w, http.StatusForbidden, httpx.ErrCodeForbidden, ferr.Error(), nil)
	case errors.As(err, &nferr):
		httpx.WriteError(w, http.StatusNotFound, httpx.ErrCodeNotFound, capitalize(nferr.Error()), nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, httpx.ErrCodeUnauthenticated, "Invalid login credentials", nil)
	case errors.Is(err, service.ErrUnauthenticated):
		writeUnauthenticated(w)
	default:
		slogx.FromContext(r.Context()).Error(strings.ToLower(fallback), "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrCodeInternal, fallback, nil)
	}
}

// decodeBody reads the JSON body into v. An empty body leaves v untouched so
// validation reports the missing fields.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := httpx.DecodeJSON(w, r, v)
	if err == nil || errors.Is(err, httpx.ErrEmptyBody) {
		return true
	}
	slogx.FromContext(r.Context()).Info("rejected request body", "error", err)
	httpx.WriteError(w, http.StatusUnprocessableEntity, httpx.ErrCodeValidation, "The request body must be a single JSON object.", nil)
	return false
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
