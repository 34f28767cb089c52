package service

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to the HTTP layer. Each maps to a stable status
// code in internal/api.
var (
	// ErrClientNotFound indicates that the requested client is not registered.
	ErrClientNotFound = errors.New("client not found")

	// ErrClientExists indicates that a client with the given CPF is already registered.
	ErrClientExists = errors.New("client already registered")

	// ErrReferrerNotRegistered indicates that the referring CPF does not
	// belong to a registered client.
	ErrReferrerNotRegistered = errors.New("client must be registered to make a referral")

	// ErrSelfReferral indicates that the source and target CPFs are the same.
	ErrSelfReferral = errors.New("client cannot refer themselves")

	// ErrTargetAlreadyRegistered indicates that the referred person is
	// already a registered client.
	ErrTargetAlreadyRegistered = errors.New("referred person is already registered")

	// ErrAlreadyReferred indicates that the target CPF already has an
	// outstanding referral.
	ErrAlreadyReferred = errors.New("person was already referred")

	// ErrNoActiveReferral indicates that no active referral exists for the
	// given target CPF.
	ErrNoActiveReferral = errors.New("no active referral registered for this CPF")

	// ErrNoReferrals indicates that a registered client has no referrals.
	ErrNoReferrals = errors.New("client has no registered referrals")

	// ErrAlreadyAccepted indicates an attempt to move an accepted referral
	// back to pending; acceptance is terminal.
	ErrAlreadyAccepted = errors.New("referral was already accepted")

	// ErrIdentityChange indicates an attempt to change an immutable identity
	// field through an update operation.
	ErrIdentityChange = errors.New("cannot change CPF")
)

// isSentinel reports whether err is one of the service sentinels that should
// pass through NewServiceError unwrapped.
func isSentinel(err error) bool {
	for _, sentinel := range []error{
		ErrClientNotFound,
		ErrClientExists,
		ErrReferrerNotRegistered,
		ErrSelfReferral,
		ErrTargetAlreadyRegistered,
		ErrAlreadyReferred,
		ErrNoActiveReferral,
		ErrNoReferrals,
		ErrAlreadyAccepted,
		ErrIdentityChange,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// ServiceError wraps errors from the service layer with operation context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_referral")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
// Known sentinel and validation errors are returned directly without wrapping
// so the HTTP layer can match on them with errors.Is.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if isSentinel(err) {
		return err
	}

	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
