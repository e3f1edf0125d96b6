package services

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned by Login for an unknown email or a wrong
// password; callers cannot tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError carries one message per offending input field, keyed by
// the field's JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }
