package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/lfarias/loyalty-api/internal/domain"
	"github.com/lfarias/loyalty-api/internal/store"
)

// clientRepositoryAdapter bridges the store.ClientStore interface to the
// repository interface the services expect. The only difference is the return
// type of WithTx, which must stay within this package's interfaces so
// transactional code never depends on the store package's concrete types.
type clientRepositoryAdapter struct {
	store store.ClientStore
}

// NewClientRepository wraps a ClientStore as a ClientRepository.
func NewClientRepository(s store.ClientStore) ClientRepository {
	return &clientRepositoryAdapter{store: s}
}

func (a *clientRepositoryAdapter) Create(ctx context.Context, client *domain.Client) error {
	return a.store.Create(ctx, client)
}

func (a *clientRepositoryAdapter) GetByCPF(ctx context.Context, cpf string) (*domain.Client, error) {
	return a.store.GetByCPF(ctx, cpf)
}

func (a *clientRepositoryAdapter) Update(ctx context.Context, client *domain.Client) error {
	return a.store.Update(ctx, client)
}

func (a *clientRepositoryAdapter) AddPoints(
	ctx context.Context,
	cpf string,
	delta int,
	updatedAt time.Time,
) error {
	return a.store.AddPoints(ctx, cpf, delta, updatedAt)
}

func (a *clientRepositoryAdapter) WithTx(tx *sql.Tx) ClientRepository {
	return &clientRepositoryAdapter{store: a.store.WithTx(tx)}
}

// referralRepositoryAdapter bridges store.ReferralStore to the repository
// interface and carries the *sql.DB handle the referral service uses to open
// transactions.
type referralRepositoryAdapter struct {
	store store.ReferralStore
	db    *sql.DB
}

// NewReferralRepository wraps a ReferralStore as a ReferralRepository.
func NewReferralRepository(s store.ReferralStore, db *sql.DB) ReferralRepository {
	return &referralRepositoryAdapter{store: s, db: db}
}

func (a *referralRepositoryAdapter) Create(ctx context.Context, referral *domain.Referral) error {
	return a.store.Create(ctx, referral)
}

func (a *referralRepositoryAdapter) GetByTarget(
	ctx context.Context,
	targetCPF string,
) (*domain.Referral, error) {
	return a.store.GetByTarget(ctx, targetCPF)
}

func (a *referralRepositoryAdapter) GetByTargetForUpdate(
	ctx context.Context,
	targetCPF string,
) (*domain.Referral, error) {
	return a.store.GetByTargetForUpdate(ctx, targetCPF)
}

func (a *referralRepositoryAdapter) ListAll(ctx context.Context) ([]*domain.Referral, error) {
	return a.store.ListAll(ctx)
}

func (a *referralRepositoryAdapter) ListBySource(
	ctx context.Context,
	sourceCPF string,
) ([]*domain.Referral, error) {
	return a.store.ListBySource(ctx, sourceCPF)
}

func (a *referralRepositoryAdapter) ExistsByTarget(
	ctx context.Context,
	targetCPF string,
) (bool, error) {
	return a.store.ExistsByTarget(ctx, targetCPF)
}

func (a *referralRepositoryAdapter) Update(ctx context.Context, referral *domain.Referral) error {
	return a.store.Update(ctx, referral)
}

func (a *referralRepositoryAdapter) DeleteExpiredPending(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	return a.store.DeleteExpiredPending(ctx, cutoff)
}

func (a *referralRepositoryAdapter) WithTx(tx *sql.Tx) ReferralRepository {
	return &referralRepositoryAdapter{store: a.store.WithTx(tx), db: a.db}
}

func (a *referralRepositoryAdapter) DB() *sql.DB {
	return a.db
}
