package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for errors.Is() checking.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation error")
	ErrConflict    = errors.New("conflict")
	ErrForbidden   = errors.New("forbidden")
	ErrUnavailable = errors.New("unavailable")
)

// ValidationDelimiter joins individual field messages into a single
// client-facing validation message.
const ValidationDelimiter = " | "

// Error is the capability implemented by failures that are deliberately
// raised by business logic. The status code and user message are exposed to
// clients verbatim, so UserMessage must never carry internal detail.
type Error interface {
	error
	StatusCode() int
	UserMessage() string
}

// Compile-time interface check.
var _ Error = (*StatusError)(nil)

// StatusError is the concrete [Error] returned by handlers and adapters.
// It is immutable once constructed.
type StatusError struct {
	status  int
	message string
	cause   error
}

// NewStatusError creates a StatusError with the given HTTP status and
// client-safe message. An optional cause is kept for logging and errors.Is;
// it is never shown to clients.
func NewStatusError(status int, message string, cause ...error) *StatusError {
	e := &StatusError{status: status, message: message}
	if len(cause) > 0 {
		e.cause = cause[0]
	}
	return e
}

// NotFound creates a 404 StatusError wrapping ErrNotFound.
func NotFound(message string) *StatusError {
	return NewStatusError(http.StatusNotFound, message, ErrNotFound)
}

// Unavailable creates a 502 StatusError wrapping the downstream cause.
func Unavailable(message string, cause error) *StatusError {
	if cause == nil {
		cause = ErrUnavailable
	}
	return NewStatusError(http.StatusBadGateway, message, cause)
}

func (e *StatusError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%d %s: %v", e.status, e.message, e.cause)
	}
	return fmt.Sprintf("%d %s", e.status, e.message)
}

// StatusCode returns the HTTP status declared by the author of the error.
func (e *StatusError) StatusCode() int { return e.status }

// UserMessage returns the client-safe message.
func (e *StatusError) UserMessage() string { return e.message }

func (e *StatusError) Unwrap() error { return e.cause }

// FieldError holds the ordered validation messages of a single field.
type FieldError struct {
	Field    string
	Messages []string
}

// ValidationError provides programmatic access to field-level validation
// failures. Fields keep the order in which they were encountered, and the
// messages of each field keep the order in which they were added.
// Use errors.Is(err, ErrValidation) for simple checks, or errors.As(err, &verr)
// to access verr.Fields.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError creates a ValidationError with a single field message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Messages: []string{message}}}}
}

// Add appends a message to field, creating the field entry on first use.
func (e *ValidationError) Add(field, message string) {
	for i := range e.Fields {
		if e.Fields[i].Field == field {
			e.Fields[i].Messages = append(e.Fields[i].Messages, message)
			return
		}
	}
	e.Fields = append(e.Fields, FieldError{Field: field, Messages: []string{message}})
}

// Messages flattens all field messages, field order first, then message
// order within each field.
func (e *ValidationError) Messages() []string {
	var out []string
	for _, f := range e.Fields {
		out = append(out, f.Messages...)
	}
	return out
}

// Message returns every field message joined with ValidationDelimiter.
func (e *ValidationError) Message() string {
	return strings.Join(e.Messages(), ValidationDelimiter)
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+strings.Join(f.Messages, ", "))
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
