package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error surfaced by the core wraps exactly one of these,
// so callers can branch with errors.Is.
var (
	ErrNotFound               = errors.New("not found")
	ErrInvalidParameter       = errors.New("invalid parameter")
	ErrApportionmentMismatch  = errors.New("apportionment mismatch")
	ErrDuplicateKey           = errors.New("duplicate key")
	ErrOutOfRange             = errors.New("out of range")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrCorruptHierarchy       = errors.New("corrupt hierarchy")
	ErrConflict               = errors.New("concurrent modification")
)

// FieldError carries the field path and a human-readable message alongside
// its kind, enough for a caller to render a field-level message.
type FieldError struct {
	Kind    error
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Field)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// NewFieldError creates a FieldError of the given kind.
func NewFieldError(kind error, field, message string) error {
	return &FieldError{Kind: kind, Field: field, Message: message}
}

// InvalidParameter is shorthand for a FieldError of kind ErrInvalidParameter.
func InvalidParameter(field, message string) error {
	return NewFieldError(ErrInvalidParameter, field, message)
}

// NotFound reports that an entity of the given type could not be resolved.
func NotFound(entity, id string) error {
	return NewFieldError(ErrNotFound, entity, fmt.Sprintf("%s %q not found", entity, id))
}

// InvalidTransition reports a workflow operation attempted from the wrong state.
func InvalidTransition(message string) error {
	return NewFieldError(ErrInvalidStateTransition, "status", message)
}

// FieldOf returns the field path of err if it carries one.
func FieldOf(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}
