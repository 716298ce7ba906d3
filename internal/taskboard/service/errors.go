// Package service holds the taskboard use cases. Every operation takes the
// calling Actor explicitly and follows the same order: validate, resolve,
// authorize, mutate, notify.
package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("not_found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

// ForbiddenError is a policy denial. It matches ErrForbidden.
type ForbiddenError struct {
	Action string // e.g. "view this task"
}

func (e *ForbiddenError) Error() string { return "Unauthorized to " + e.Action }

func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

func forbidden(action string) error { return &ForbiddenError{Action: action} }

// NotFoundError names the kind of resource that did not resolve. It matches
// ErrNotFound.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func notFound(resource string) error { return &NotFoundError{Resource: resource} }

// ValidationError collects per field messages for rejected input.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Summary()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return e.Summary() + " (" + strings.Join(keys, ", ") + ")"
}

// Summary is the top level message, defaulting to a generic one.
func (e *ValidationError) Summary() string {
	if e.Message != "" {
		return e.Message
	}
	return "The given data was invalid."
}

// Add records msg against field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Err returns e when anything was recorded and nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func fieldError(field, msg string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, msg)
	return v
}
