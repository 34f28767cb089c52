package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/lfarias/loyalty-api/internal/domain"
)

// ClientStore defines the interface for client data persistence.
type ClientStore interface {
	// Create saves a new client to the store.
	// Returns ErrClientExists if the CPF is already registered.
	// Returns validation errors from the domain Client if data is invalid.
	Create(ctx context.Context, client *domain.Client) error

	// GetByCPF retrieves a client by their CPF.
	// Returns ErrClientNotFound if the client does not exist.
	GetByCPF(ctx context.Context, cpf string) (*domain.Client, error)

	// Update modifies an existing client's profile fields and updated_at
	// timestamp. The CPF is the lookup key and is never modified; the points
	// counter is not touched by this method.
	// Returns ErrClientNotFound if the client does not exist.
	Update(ctx context.Context, client *domain.Client) error

	// AddPoints atomically increments the client's points counter by delta
	// and refreshes updated_at. Intended to be called inside the referral
	// acceptance transaction.
	// Returns ErrClientNotFound if the client does not exist.
	AddPoints(ctx context.Context, cpf string, delta int, updatedAt time.Time) error

	// WithTx returns a new ClientStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) ClientStore
}
