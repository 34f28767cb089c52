package domain

import (
	"errors"
	"time"
)

// Referral-specific validation errors
var (
	ErrEmptySourceCPF = errors.New("source CPF cannot be empty")
	ErrEmptyTargetCPF = errors.New("target CPF cannot be empty")
	ErrSelfReferral   = errors.New("client cannot refer themselves")
)

// ReferralAward is the fixed number of points credited to the referring
// client when a referral is accepted.
const ReferralAward = 10

// ReferralTTL is how long a pending referral stays valid before it becomes
// eligible for the lazy expiry sweep.
const ReferralTTL = 30 * 24 * time.Hour

// Referral links a registered client (source) to the person they referred
// (target). Status is false while the referral is pending and true once it
// has been accepted; acceptance is terminal. Both CPFs are immutable after
// creation.
type Referral struct {
	ID        int64     `json:"id"`
	SourceCPF string    `json:"source_cpf"`
	TargetCPF string    `json:"target_cpf"`
	Status    bool      `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewReferral creates a pending Referral between the two CPFs with both
// timestamps set to the given instant. The surrogate ID is assigned by the
// store on insert. Returns an error if validation fails.
func NewReferral(sourceCPF, targetCPF string, now time.Time) (*Referral, error) {
	referral := &Referral{
		SourceCPF: sourceCPF,
		TargetCPF: targetCPF,
		Status:    false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := referral.Validate(); err != nil {
		return nil, err
	}

	return referral, nil
}

// Validate checks if the Referral has valid data.
// Returns an error if any field fails validation.
func (r *Referral) Validate() error {
	if r.SourceCPF == "" {
		return ErrEmptySourceCPF
	}

	if r.TargetCPF == "" {
		return ErrEmptyTargetCPF
	}

	if !IsNumeric(r.SourceCPF) {
		return NewValidationError("source_cpf", "must contain only numbers", ErrCPFNotNumeric)
	}

	if !IsNumeric(r.TargetCPF) {
		return NewValidationError("target_cpf", "must contain only numbers", ErrCPFNotNumeric)
	}

	if r.SourceCPF == r.TargetCPF {
		return ErrSelfReferral
	}

	return nil
}

// Expired reports whether the referral is still pending and older than the
// 30-day TTL at the given instant. Accepted referrals never expire.
func (r *Referral) Expired(now time.Time) bool {
	if r.Status {
		return false
	}
	return now.Sub(r.CreatedAt) >= ReferralTTL
}

// Accept flips the referral to accepted and refreshes the updated-at
// timestamp. Accepting an already-accepted referral is a no-op; it reports
// whether the call performed the pending-to-accepted transition, which is
// what gates the point award.
func (r *Referral) Accept(now time.Time) bool {
	if r.Status {
		return false
	}
	r.Status = true
	r.UpdatedAt = now
	return true
}
