package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation references an id that is not
// in the store.
var ErrNotFound = errors.New("record not found")

// ValidationError reports malformed or semantically invalid input. It is
// recoverable by the caller and maps to a 400 response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a field-scoped validation error.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
