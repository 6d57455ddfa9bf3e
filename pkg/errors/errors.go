// Package errors defines the application error vocabulary. Domain code
// returns typed AppErrors; the HTTP layer maps them to status codes
// without inspecting messages.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error
type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindNotFound   Kind = "NOT_FOUND"
	KindConflict   Kind = "CONFLICT"
	KindForbidden  Kind = "FORBIDDEN"
	KindStore      Kind = "STORE"
)

// AppError carries an error kind alongside the HTTP status it maps to
type AppError struct {
	Kind       Kind
	Message    string
	Cause      error
	HTTPStatus int
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError reports malformed or rejected input
func NewValidationError(message string) *AppError {
	return &AppError{
		Kind:       KindValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFoundError reports a missing resource, named by what was looked up
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Kind:       KindNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewConflictError reports a write that lost to an existing record, such
// as registering an email that already has an account
func NewConflictError(message string) *AppError {
	return &AppError{
		Kind:       KindConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewForbiddenError reports a request outside the requester's visibility
func NewForbiddenError(message string) *AppError {
	if message == "" {
		message = "forbidden"
	}
	return &AppError{
		Kind:       KindForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewDatabaseError wraps a failed store operation
func NewDatabaseError(operation string, err error) *AppError {
	return &AppError{
		Kind:       KindStore,
		Message:    fmt.Sprintf("store operation %q failed", operation),
		Cause:      err,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func isKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// IsNotFound reports whether err is a missing-resource error
func IsNotFound(err error) bool {
	return isKind(err, KindNotFound)
}

// IsConflict reports whether err is a conflicting-write error
func IsConflict(err error) bool {
	return isKind(err, KindConflict)
}

// IsForbidden reports whether err is a visibility error
func IsForbidden(err error) bool {
	return isKind(err, KindForbidden)
}
