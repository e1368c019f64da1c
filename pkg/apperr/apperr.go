// Package apperr defines the error kinds the catalog services return and how
// they map onto HTTP status codes.
//
// Services return *Error values built with the constructors below; callers
// compare with errors.Is against the sentinels:
//
//	if errors.Is(err, apperr.ErrNotFound) { ... }
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAuthentication    = errors.New("authentication failed")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
)

// Error is a classified, human-readable service error.
type Error struct {
	Kind    error             // one of the sentinels above
	Message string            // safe to show to API clients
	Fields  map[string]string // per-field messages for validation failures
	Err     error             // underlying cause, never shown to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error { return newf(ErrNotFound, format, args...) }
func Conflict(format string, args ...any) error { return newf(ErrConflict, format, args...) }
func Forbidden(format string, args ...any) error { return newf(ErrForbidden, format, args...) }

func InsufficientStock(format string, args ...any) error {
	return newf(ErrInsufficientStock, format, args...)
}

func Authentication(format string, args ...any) error {
	return newf(ErrAuthentication, format, args...)
}

// Validation builds a validation error carrying per-field messages.
func Validation(fields map[string]string) error {
	return &Error{Kind: ErrValidation, Message: "Validation failed", Fields: fields}
}

// Invalid builds a validation error for a single field.
func Invalid(field, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return &Error{Kind: ErrValidation, Message: msg, Fields: map[string]string{field: msg}}
}

// Wrap attaches a cause to a classified error.
func Wrap(kind error, err error, format string, args ...any) error {
	e := newf(kind, format, args...)
	e.Err = err
	return e
}

// Status maps err onto an HTTP status code. Unclassified errors are 500.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInsufficientStock):
		return http.StatusBadRequest
	case errors.Is(err, ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for err and its field errors.
// Unclassified errors yield a generic message.
func Message(err error) (string, map[string]string) {
	var e *Error
	if errors.As(err, &e) {
		return e.Message, e.Fields
	}
	return "Internal Server Error", nil
}
