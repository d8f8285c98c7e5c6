// Package apperror defines the error taxonomy shared by every layer.
//
// Services return these; the HTTP layer maps them to status codes with
// errors.Is, so the sentinel must always stay reachable through Unwrap.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("Validation Error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUpstream     = errors.New("upstream failure")
)

type AppError struct {
	Err     error  // sentinel, or the upstream cause for ErrUpstream
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Unauthorized is returned when a request carries no usable identity.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Upstream wraps a failure of an external dependency (GitHub, the store).
// The cause's message is kept in Message so callers can diagnose it, and
// both ErrUpstream and the cause match with errors.Is.
func Upstream(dependency string, cause error) *AppError {
	return &AppError{
		Err:     &upstreamError{cause: cause},
		Message: fmt.Sprintf("%s: %v", dependency, cause),
	}
}

type upstreamError struct {
	cause error
}

func (e *upstreamError) Error() string { return e.cause.Error() }

func (e *upstreamError) Is(target error) bool { return target == ErrUpstream }

func (e *upstreamError) Unwrap() error { return e.cause }
