package tasksdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes carried in ErrorResponse.Error.
const (
	ErrorCodeValidation      = "validation_failed"
	ErrorCodeUnauthenticated = "unauthenticated"
	ErrorCodeForbidden       = "forbidden"
	ErrorCodeNotFound        = "not_found"
	ErrorCodeRateLimited     = "rate_limited"
	ErrorCodeInternal        = "internal_error"
)

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Fields     map[string][]string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("taskboard: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("taskboard: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

func IsNotFound(err error) bool     { return IsStatus(err, http.StatusNotFound) }
func IsForbidden(err error) bool    { return IsStatus(err, http.StatusForbidden) }
func IsUnauthorized(err error) bool { return IsStatus(err, http.StatusUnauthorized) }
func IsValidation(err error) bool   { return IsStatus(err, http.StatusUnprocessableEntity) }

func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Status == StatusError {
		apiErr.Code = errResp.Error
		apiErr.Message = errResp.Message
		apiErr.Fields = errResp.Errors
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(body))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
