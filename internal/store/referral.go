package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/lfarias/loyalty-api/internal/domain"
)

// ReferralStore defines the interface for referral data persistence.
type ReferralStore interface {
	// Create saves a new referral to the store and assigns its surrogate ID.
	// Returns ErrTargetReferred if a referral already exists for the target CPF.
	// Returns validation errors from the domain Referral if data is invalid.
	Create(ctx context.Context, referral *domain.Referral) error

	// GetByTarget retrieves the single referral whose target CPF matches.
	// Returns ErrReferralNotFound if no such referral exists.
	GetByTarget(ctx context.Context, targetCPF string) (*domain.Referral, error)

	// GetByTargetForUpdate behaves like GetByTarget but acquires a row-level
	// lock on the referral. Only meaningful when the store is bound to a
	// transaction via WithTx; the lock serializes concurrent acceptance of
	// the same referral.
	GetByTargetForUpdate(ctx context.Context, targetCPF string) (*domain.Referral, error)

	// ListAll retrieves every referral in the store, oldest first.
	ListAll(ctx context.Context) ([]*domain.Referral, error)

	// ListBySource retrieves all referrals issued by the given source CPF,
	// oldest first. Returns an empty slice when the source has none.
	ListBySource(ctx context.Context, sourceCPF string) ([]*domain.Referral, error)

	// ExistsByTarget reports whether any referral exists for the target CPF.
	ExistsByTarget(ctx context.Context, targetCPF string) (bool, error)

	// Update persists the referral's status and updated_at timestamp.
	// The source and target CPFs are immutable and are used only as the
	// lookup key. Returns ErrReferralNotFound if the referral does not exist.
	Update(ctx context.Context, referral *domain.Referral) error

	// DeleteExpiredPending removes every pending referral created at or
	// before the cutoff and reports how many rows were deleted. Accepted
	// referrals are never touched. Idempotent.
	DeleteExpiredPending(ctx context.Context, cutoff time.Time) (int64, error)

	// WithTx returns a new ReferralStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) ReferralStore
}
