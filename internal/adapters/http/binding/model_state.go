// Package binding fills request models from query strings and JSON bodies
// and validates them, collecting every failure into a ModelState instead of
// stopping at the first one.
package binding

import (
	"github.com/jsamuelsen11/core-api/internal/domain"
)

// ModelState collects field-level binding and validation failures for one
// request. The zero value is valid and empty.
type ModelState struct {
	errs    domain.ValidationError
	invalid bool
}

// AddError records message against field and marks the state invalid.
func (m *ModelState) AddError(field, message string) {
	m.invalid = true
	m.errs.Add(field, message)
}

// Invalidate marks the state invalid without recording a message.
func (m *ModelState) Invalidate() {
	m.invalid = true
}

// IsValid reports whether no failure has been recorded.
func (m *ModelState) IsValid() bool {
	return !m.invalid
}

// HasError reports whether field already has at least one message.
func (m *ModelState) HasError(field string) bool {
	for _, f := range m.errs.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Message joins every recorded message in encounter order.
func (m *ModelState) Message() string {
	return m.errs.Message()
}

// Err returns the recorded failures as a *domain.ValidationError, or nil
// when there are no messages.
func (m *ModelState) Err() *domain.ValidationError {
	if len(m.errs.Fields) == 0 {
		return nil
	}

	fields := make([]domain.FieldError, len(m.errs.Fields))
	for i, f := range m.errs.Fields {
		fields[i] = domain.FieldError{
			Field:    f.Field,
			Messages: append([]string(nil), f.Messages...),
		}
	}
	return &domain.ValidationError{Fields: fields}
}
