package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation and translation failures.
var (
	ErrEmptyDocument  = errors.New("document text is empty")
	ErrUnknownSource  = errors.New("unknown document source")
	ErrMissingID      = errors.New("document source_id is empty")
	ErrBadThreshold   = errors.New("age threshold is not a number")
	ErrEmptyQuestion  = errors.New("question is empty")
)

// ValidationError wraps a sentinel with field context.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}
