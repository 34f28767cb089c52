package domain

import (
	"errors"
	"net/mail"
	"time"
)

// Client-specific validation errors
var (
	ErrEmptyCPF   = errors.New("CPF cannot be empty")
	ErrEmptyName  = errors.New("name cannot be empty")
	ErrEmptyPhone = errors.New("phone cannot be empty")
	ErrEmptyEmail = errors.New("email cannot be empty")
)

// Client represents a registered participant of the loyalty program.
// The CPF is the primary key and is immutable once the client is created.
// Points are only ever mutated by referral acceptance, never by a
// client-facing update.
type Client struct {
	CPF       string    `json:"cpf"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewClient creates a new Client with zero points and both timestamps set to
// the given instant. Returns an error if validation fails.
func NewClient(cpf, name, phone, email string, now time.Time) (*Client, error) {
	client := &Client{
		CPF:       cpf,
		Name:      name,
		Phone:     phone,
		Email:     email,
		Points:    0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := client.Validate(); err != nil {
		return nil, err
	}

	return client, nil
}

// Validate checks if the Client has valid data.
// Returns an error if any field fails validation.
//
// CPF checksum validation is intentionally not performed here: the checksum
// rules belong to the external identity validator, which the services consult
// before any client reaches this point.
func (c *Client) Validate() error {
	if c.CPF == "" {
		return ErrEmptyCPF
	}

	if !IsNumeric(c.CPF) {
		return ErrCPFNotNumeric
	}

	if c.Name == "" {
		return ErrEmptyName
	}

	if c.Phone == "" {
		return ErrEmptyPhone
	}

	if c.Email == "" {
		return ErrEmptyEmail
	}

	if _, err := mail.ParseAddress(c.Email); err != nil {
		return ErrInvalidEmail
	}

	if c.Points < 0 {
		return NewValidationError("points", "cannot be negative", ErrValidation)
	}

	return nil
}

// ApplyProfile overwrites the mutable profile fields and refreshes the
// updated-at timestamp. The CPF and points are left untouched.
func (c *Client) ApplyProfile(name, phone, email string, now time.Time) error {
	updated := *c
	updated.Name = name
	updated.Phone = phone
	updated.Email = email

	if err := updated.Validate(); err != nil {
		return err
	}

	c.Name = name
	c.Phone = phone
	c.Email = email
	c.UpdatedAt = now
	return nil
}

// IsNumeric reports whether s is non-empty and contains only ASCII digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
