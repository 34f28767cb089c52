// Package identity validates Brazilian CPF identity numbers. The rest of the
// application treats it as an external collaborator: services receive a
// Validator and never inspect checksum rules themselves.
package identity

import (
	"github.com/klassmann/cpfcnpj"

	"github.com/lfarias/loyalty-api/internal/domain"
)

// Validator checks whether a string is a well-formed CPF.
type Validator interface {
	// ValidateCPF returns nil when the CPF is valid, a field-level
	// ValidationError wrapping domain.ErrCPFNotNumeric or domain.ErrInvalidCPF
	// otherwise. The field name is attached by the caller via the returned
	// error's Field.
	ValidateCPF(field, cpf string) error
}

// CPFValidator is the production Validator backed by the cpfcnpj checksum
// implementation.
type CPFValidator struct{}

// NewCPFValidator creates a CPF validator.
func NewCPFValidator() CPFValidator {
	return CPFValidator{}
}

// ValidateCPF implements Validator. The numeric-only check runs first so the
// caller can distinguish "contains letters" from "digits with a bad
// checksum", matching the user-facing error split on client creation.
func (CPFValidator) ValidateCPF(field, cpf string) error {
	if cpf == "" {
		return domain.NewValidationError(field, "is required", domain.ErrValidation)
	}
	if !domain.IsNumeric(cpf) {
		return domain.NewValidationError(field, "must contain only numbers", domain.ErrCPFNotNumeric)
	}
	if !cpfcnpj.ValidateCPF(cpf) {
		return domain.NewValidationError(field, "is not a valid CPF", domain.ErrInvalidCPF)
	}
	return nil
}
