// Package apperror defines the application's error taxonomy.
//
// Services and clients return these instead of raw driver or transport
// errors so that the HTTP layer can map failures to status codes with
// errors.Is without knowing where they came from.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrExpired     = errors.New("expired")
	ErrValidation  = errors.New("validation error")
	ErrUnsupported = errors.New("unsupported")
	ErrUpstream    = errors.New("upstream request failed")
)

// AppError carries a sentinel error plus a human-readable message.
// errors.Is sees through it via Unwrap.
type AppError struct {
	Err     error  // sentinel from this package
	Message string // human-readable description
	Field   string // optional: field or parameter causing the error
	Status  int    // optional: upstream HTTP status for ErrUpstream
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing record. A record that never existed and one
// that was deleted are indistinguishable to callers.
func NotFound(resource string, id any) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("no %s found for id %v", resource, id),
	}
}

// Expired reports a record whose expiry has passed. The row still exists
// in storage; it is only logically gone for retrieval.
func Expired(resource string, id any) *AppError {
	return &AppError{
		Err:     ErrExpired,
		Message: fmt.Sprintf("%s %v has expired", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// MissingParameter reports a required path or query parameter that was
// absent or unparsable.
func MissingParameter(key string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: fmt.Sprintf("missing required parameter: %s", key),
		Field:   key,
	}
}

func Unsupported(message string) *AppError {
	return &AppError{
		Err:     ErrUnsupported,
		Message: message,
	}
}

// Upstream reports a failed outbound request. status is the upstream HTTP
// status code, or 0 when the request never got a response.
func Upstream(status int, message string) *AppError {
	return &AppError{
		Err:     ErrUpstream,
		Message: message,
		Status:  status,
	}
}
