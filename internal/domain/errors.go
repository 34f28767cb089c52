package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCPF is returned when a CPF fails checksum validation.
	ErrInvalidCPF = errors.New("invalid CPF")

	// ErrCPFNotNumeric is returned when a CPF contains non-digit characters.
	ErrCPFNotNumeric = errors.New("CPF must contain only numbers")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrIdentityChange is returned when an update attempts to change an
	// immutable identity field (a client's CPF, or a referral's source or
	// target CPF).
	ErrIdentityChange = errors.New("cannot change CPF")
)

// ValidationError carries a field-level validation failure so the HTTP layer
// can report which field was rejected and why.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new field-level validation error wrapping the
// given sentinel.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
