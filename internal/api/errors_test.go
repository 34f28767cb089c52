package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lfarias/loyalty-api/internal/domain"
	"github.com/lfarias/loyalty-api/internal/service"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"client not found", service.ErrClientNotFound, http.StatusNotFound},
		{"referrer not registered", service.ErrReferrerNotRegistered, http.StatusNotFound},
		{"no active referral", service.ErrNoActiveReferral, http.StatusNotFound},
		{"no referrals", service.ErrNoReferrals, http.StatusNotFound},
		{"client exists", service.ErrClientExists, http.StatusBadRequest},
		{"self referral", service.ErrSelfReferral, http.StatusBadRequest},
		{"target registered", service.ErrTargetAlreadyRegistered, http.StatusBadRequest},
		{"already referred", service.ErrAlreadyReferred, http.StatusBadRequest},
		{"already accepted", service.ErrAlreadyAccepted, http.StatusBadRequest},
		{"identity change", service.ErrIdentityChange, http.StatusBadRequest},
		{
			"field validation",
			domain.NewValidationError("cpf", "is not a valid CPF", domain.ErrInvalidCPF),
			http.StatusBadRequest,
		},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Run("field validation message surfaces the field", func(t *testing.T) {
		err := domain.NewValidationError("source_cpf", "must contain only numbers", domain.ErrCPFNotNumeric)
		assert.Equal(t, "source_cpf must contain only numbers", GetSafeErrorMessage(err))
	})

	t.Run("unknown errors never leak details", func(t *testing.T) {
		err := errors.New("pq: connection to 10.0.0.5 refused")
		assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(err))
	})

	t.Run("nil error", func(t *testing.T) {
		assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	})
}

func TestSanitizeValidationError(t *testing.T) {
	err := errors.New(
		"Key: 'CreateClientRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag")
	assert.Equal(t, "Invalid Email: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("boom")))
}
