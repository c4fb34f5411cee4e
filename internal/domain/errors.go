package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by services and both delivery surfaces.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrPersistence        = errors.New("persistence failure")
)

// ValidationError reports a missing or malformed field. It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DateError reports a date field that does not match DateLayout. It matches ErrInvalidDate.
type DateError struct {
	Field string
	Value string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("%s: %q is not a valid date, expected YYYY-MM-DDTHH:MM", e.Field, e.Value)
}

func (e *DateError) Is(target error) bool {
	return target == ErrInvalidDate
}

// PersistenceError is returned by repositories when a statement fails.
// Constraint is set when the database rejected the write because of a constraint
// (unique, foreign key); otherwise the failure is treated as transient.
type PersistenceError struct {
	Op         string
	Constraint bool
	Err        error
}

func (e *PersistenceError) Error() string {
	if e.Constraint {
		return fmt.Sprintf("%s: constraint violation: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// IsConstraintViolation reports whether err carries a PersistenceError raised by a constraint.
func IsConstraintViolation(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe) && pe.Constraint
}
