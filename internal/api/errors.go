package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/lfarias/loyalty-api/internal/api/shared"
	"github.com/lfarias/loyalty-api/internal/domain"
	"github.com/lfarias/loyalty-api/internal/service"
	"github.com/lfarias/loyalty-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErr *domain.ValidationError

	switch {
	// Not found errors
	case errors.Is(err, service.ErrClientNotFound),
		errors.Is(err, service.ErrReferrerNotRegistered),
		errors.Is(err, service.ErrNoActiveReferral),
		errors.Is(err, service.ErrNoReferrals),
		errors.Is(err, store.ErrClientNotFound),
		errors.Is(err, store.ErrReferralNotFound):
		return http.StatusNotFound

	// Conflict and precondition failures surface as plain 400s, matching
	// the validation failures they sit alongside in error payloads.
	case errors.Is(err, service.ErrClientExists),
		errors.Is(err, service.ErrSelfReferral),
		errors.Is(err, domain.ErrSelfReferral),
		errors.Is(err, service.ErrTargetAlreadyRegistered),
		errors.Is(err, service.ErrAlreadyReferred),
		errors.Is(err, service.ErrAlreadyAccepted),
		errors.Is(err, service.ErrIdentityChange),
		errors.Is(err, domain.ErrIdentityChange):
		return http.StatusBadRequest

	// Field validation errors
	case errors.As(err, &validationErr),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidCPF),
		errors.Is(err, domain.ErrCPFNotNumeric),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError

	switch {
	// Not found errors
	case errors.Is(err, service.ErrClientNotFound),
		errors.Is(err, store.ErrClientNotFound):
		return "Client not found"

	case errors.Is(err, service.ErrReferrerNotRegistered):
		return "Client must be registered to make a referral"

	case errors.Is(err, service.ErrNoActiveReferral),
		errors.Is(err, store.ErrReferralNotFound):
		return "No active referral registered for this CPF"

	case errors.Is(err, service.ErrNoReferrals):
		return "Client has no registered referrals"

	// Conflicts
	case errors.Is(err, service.ErrClientExists):
		return "Client already registered"

	case errors.Is(err, service.ErrSelfReferral):
		return "Client cannot refer themselves"

	case errors.Is(err, service.ErrTargetAlreadyRegistered):
		return "Referred person is already registered"

	case errors.Is(err, service.ErrAlreadyReferred):
		return "Person was already referred"

	case errors.Is(err, service.ErrAlreadyAccepted):
		return "Referral was already accepted"

	case errors.Is(err, service.ErrIdentityChange),
		errors.Is(err, domain.ErrIdentityChange):
		return "Cannot change CPF"

	// Field validation errors carry a safe field-level message
	case errors.As(err, &validationErr):
		return validationErr.Error()

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validator errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'CreateClientRequest.Email' Error:Field
	// validation for 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "numeric":
		return "must contain only numbers"
	case "len":
		return "wrong length"
	case "max":
		return "too long"
	default:
		return "validation failed"
	}
}

// HandleServiceError maps a service-layer error onto the wire using the
// standard status/message mapping. Handlers call this for any error they do
// not treat specially.
func HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
