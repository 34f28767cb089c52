package api

import (
	"time"

	"github.com/lfarias/loyalty-api/internal/domain"
)

// Common request/response structures

// CreateClientRequest defines the payload for the client registration endpoint.
type CreateClientRequest struct {
	CPF   string `json:"cpf"   validate:"required,numeric,len=11"`
	Name  string `json:"name"  validate:"required,max=255"`
	Phone string `json:"phone" validate:"required,max=32"`
	Email string `json:"email" validate:"required,email"`
}

// UpdateClientRequest defines the payload for the client update endpoint.
// The CPF must match the one in the URL; it is carried here only so an
// identity-change attempt can be rejected explicitly.
type UpdateClientRequest struct {
	CPF   string `json:"cpf"   validate:"required,numeric,len=11"`
	Name  string `json:"name"  validate:"required,max=255"`
	Phone string `json:"phone" validate:"required,max=32"`
	Email string `json:"email" validate:"required,email"`
}

// ClientResponse defines the client representation returned by the API.
// Points are read-only; no request payload carries them.
type ClientResponse struct {
	CPF       string    `json:"cpf"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewClientResponse builds a ClientResponse from a domain client.
func NewClientResponse(client *domain.Client) ClientResponse {
	return ClientResponse{
		CPF:       client.CPF,
		Name:      client.Name,
		Phone:     client.Phone,
		Email:     client.Email,
		Points:    client.Points,
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
}

// CreateReferralRequest defines the payload for the referral creation endpoint.
type CreateReferralRequest struct {
	SourceCPF string `json:"source_cpf" validate:"required,numeric,len=11"`
	TargetCPF string `json:"target_cpf" validate:"required,numeric,len=11"`
}

// UpdateReferralRequest defines the payload for the referral update endpoint.
// Source and target CPFs must match the stored referral.
type UpdateReferralRequest struct {
	SourceCPF string `json:"source_cpf" validate:"required,numeric,len=11"`
	TargetCPF string `json:"target_cpf" validate:"required,numeric,len=11"`
	Status    bool   `json:"status"`
}

// ReferralResponse defines the referral representation returned by the API.
type ReferralResponse struct {
	ID        int64     `json:"id"`
	SourceCPF string    `json:"source_cpf"`
	TargetCPF string    `json:"target_cpf"`
	Status    bool      `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewReferralResponse builds a ReferralResponse from a domain referral.
func NewReferralResponse(referral *domain.Referral) ReferralResponse {
	return ReferralResponse{
		ID:        referral.ID,
		SourceCPF: referral.SourceCPF,
		TargetCPF: referral.TargetCPF,
		Status:    referral.Status,
		CreatedAt: referral.CreatedAt,
		UpdatedAt: referral.UpdatedAt,
	}
}

// NewReferralListResponse builds the list representation for referral
// collection endpoints.
func NewReferralListResponse(referrals []*domain.Referral) []ReferralResponse {
	out := make([]ReferralResponse, 0, len(referrals))
	for _, referral := range referrals {
		out = append(out, NewReferralResponse(referral))
	}
	return out
}
