package domain

import (
	"errors"
	"fmt"
)

// ValidationError indicates a malformed or incomplete request.
// Always maps to a client error at the HTTP boundary.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates a referenced identifier does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// DispatchErrorKind classifies outbound webhook failures. All kinds are
// transient or external; none of them may mutate local state.
type DispatchErrorKind string

const (
	DispatchNotConfigured DispatchErrorKind = "not_configured"
	DispatchTimeout       DispatchErrorKind = "timeout"
	DispatchHTTPError     DispatchErrorKind = "http_error"
	DispatchNetworkError  DispatchErrorKind = "network_error"
)

// DispatchError carries the failure detail of one outbound webhook call.
type DispatchError struct {
	Job        JobName
	Kind       DispatchErrorKind
	StatusCode int
	Body       string
	Cause      error
}

func (e *DispatchError) Error() string {
	switch e.Kind {
	case DispatchNotConfigured:
		return fmt.Sprintf("webhook %q is not configured", e.Job)
	case DispatchTimeout:
		return fmt.Sprintf("webhook %q timed out", e.Job)
	case DispatchHTTPError:
		return fmt.Sprintf("webhook %q returned %d: %s", e.Job, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("webhook %q dispatch failed: %v", e.Job, e.Cause)
	}
}

func (e *DispatchError) Unwrap() error {
	return e.Cause
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

func IsDispatch(err error) bool {
	var de *DispatchError
	return errors.As(err, &de)
}
