package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/lfarias/loyalty-api/internal/api/shared"
	"github.com/lfarias/loyalty-api/internal/service"
)

// ReferralHandler handles referral-related HTTP requests
type ReferralHandler struct {
	referralService service.ReferralService
	validator       *validator.Validate
}

// NewReferralHandler creates a new ReferralHandler
func NewReferralHandler(referralService service.ReferralService) *ReferralHandler {
	return &ReferralHandler{
		referralService: referralService,
		validator:       validator.New(),
	}
}

// CreateReferral handles POST /api/referrals requests
func (h *ReferralHandler) CreateReferral(w http.ResponseWriter, r *http.Request) {
	var req CreateReferralRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	referral, err := h.referralService.CreateReferral(r.Context(), req.SourceCPF, req.TargetCPF)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewReferralResponse(referral))
}

// ListReferrals handles GET /api/referrals requests
func (h *ReferralHandler) ListReferrals(w http.ResponseWriter, r *http.Request) {
	referrals, err := h.referralService.ListReferrals(r.Context())
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewReferralListResponse(referrals))
}

// ListReferralsBySource handles GET /api/clients/{cpf}/referrals requests
func (h *ReferralHandler) ListReferralsBySource(w http.ResponseWriter, r *http.Request) {
	cpf := chi.URLParam(r, "cpf")

	referrals, err := h.referralService.ListReferralsBySource(r.Context(), cpf)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewReferralListResponse(referrals))
}

// GetReferralByTarget handles GET /api/referrals/{cpf} requests
func (h *ReferralHandler) GetReferralByTarget(w http.ResponseWriter, r *http.Request) {
	cpf := chi.URLParam(r, "cpf")

	referral, err := h.referralService.GetReferralByTarget(r.Context(), cpf)
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewReferralResponse(referral))
}

// UpdateReferral handles PUT /api/referrals/{cpf} requests
func (h *ReferralHandler) UpdateReferral(w http.ResponseWriter, r *http.Request) {
	cpf := chi.URLParam(r, "cpf")

	var req UpdateReferralRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	referral, err := h.referralService.AcceptReferral(r.Context(), cpf, service.AcceptReferralRequest{
		SourceCPF: req.SourceCPF,
		TargetCPF: req.TargetCPF,
		Status:    req.Status,
	})
	if err != nil {
		HandleServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewReferralResponse(referral))
}
