package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is a generic version of the entity-specific not found
	// errors (e.g., ErrClientNotFound, ErrReferralNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a client with the same CPF).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrClientNotFound indicates that the requested client does not exist in the store.
	ErrClientNotFound = fmt.Errorf("%w: client", ErrNotFound)

	// ErrReferralNotFound indicates that the requested referral does not exist in the store.
	ErrReferralNotFound = fmt.Errorf("%w: referral", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrClientExists indicates that a client with the given CPF is already registered.
	ErrClientExists = fmt.Errorf("%w: cpf", ErrDuplicate)

	// ErrTargetReferred indicates that a referral already exists for the
	// given target CPF. This backs the "at most one outstanding referral per
	// person" invariant at the database level.
	ErrTargetReferred = fmt.Errorf("%w: target_cpf", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
