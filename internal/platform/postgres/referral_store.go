package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/lfarias/loyalty-api/internal/domain"
	"github.com/lfarias/loyalty-api/internal/platform/logger"
	"github.com/lfarias/loyalty-api/internal/store"
)

// PostgresReferralStore implements the store.ReferralStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReferralStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReferralStore creates a new PostgreSQL implementation of the ReferralStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresReferralStore(db store.DBTX, logger *slog.Logger) *PostgresReferralStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReferralStore{
		db:     db,
		logger: logger.With(slog.String("component", "referral_store")),
	}
}

// Ensure PostgresReferralStore implements store.ReferralStore interface
var _ store.ReferralStore = (*PostgresReferralStore)(nil)

// WithTx implements store.ReferralStore.WithTx
func (s *PostgresReferralStore) WithTx(tx *sql.Tx) store.ReferralStore {
	return &PostgresReferralStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ReferralStore.Create
// It saves a new referral and fills in the assigned surrogate ID.
// Returns store.ErrTargetReferred if a referral already exists for the target
// CPF (the unique constraint backs the one-outstanding-referral invariant).
func (s *PostgresReferralStore) Create(ctx context.Context, referral *domain.Referral) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := referral.Validate(); err != nil {
		log.Warn("referral validation failed during create",
			slog.String("error", err.Error()),
			slog.String("source_cpf", referral.SourceCPF),
			slog.String("target_cpf", referral.TargetCPF))
		return err
	}

	query := `
		INSERT INTO referrals (source_cpf, target_cpf, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		referral.SourceCPF,
		referral.TargetCPF,
		referral.Status,
		referral.CreatedAt,
		referral.UpdatedAt,
	).Scan(&referral.ID)

	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("target already has a referral",
				slog.String("target_cpf", referral.TargetCPF))
			return store.ErrTargetReferred
		}

		log.Error("failed to create referral",
			slog.String("error", err.Error()),
			slog.String("source_cpf", referral.SourceCPF),
			slog.String("target_cpf", referral.TargetCPF))
		return err
	}

	log.Info("referral created successfully",
		slog.Int64("referral_id", referral.ID),
		slog.String("source_cpf", referral.SourceCPF),
		slog.String("target_cpf", referral.TargetCPF))
	return nil
}

const referralColumns = `id, source_cpf, target_cpf, status, created_at, updated_at`

func scanReferral(row *sql.Row) (*domain.Referral, error) {
	var referral domain.Referral
	err := row.Scan(
		&referral.ID,
		&referral.SourceCPF,
		&referral.TargetCPF,
		&referral.Status,
		&referral.CreatedAt,
		&referral.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &referral, nil
}

// GetByTarget implements store.ReferralStore.GetByTarget
// Returns store.ErrReferralNotFound if no referral exists for the target CPF.
func (s *PostgresReferralStore) GetByTarget(
	ctx context.Context,
	targetCPF string,
) (*domain.Referral, error) {
	return s.getByTarget(ctx, targetCPF, false)
}

// GetByTargetForUpdate implements store.ReferralStore.GetByTargetForUpdate
// It acquires a row-level lock so concurrent acceptance of the same referral
// serializes inside the surrounding transaction.
func (s *PostgresReferralStore) GetByTargetForUpdate(
	ctx context.Context,
	targetCPF string,
) (*domain.Referral, error) {
	return s.getByTarget(ctx, targetCPF, true)
}

func (s *PostgresReferralStore) getByTarget(
	ctx context.Context,
	targetCPF string,
	forUpdate bool,
) (*domain.Referral, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + referralColumns + `
		FROM referrals
		WHERE target_cpf = $1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	referral, err := scanReferral(s.db.QueryRowContext(ctx, query, targetCPF))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("referral not found", slog.String("target_cpf", targetCPF))
			return nil, store.ErrReferralNotFound
		}
		log.Error("failed to get referral by target",
			slog.String("error", err.Error()),
			slog.String("target_cpf", targetCPF))
		return nil, err
	}

	return referral, nil
}

// ListAll implements store.ReferralStore.ListAll
func (s *PostgresReferralStore) ListAll(ctx context.Context) ([]*domain.Referral, error) {
	query := `
		SELECT ` + referralColumns + `
		FROM referrals
		ORDER BY id
	`
	return s.list(ctx, query)
}

// ListBySource implements store.ReferralStore.ListBySource
func (s *PostgresReferralStore) ListBySource(
	ctx context.Context,
	sourceCPF string,
) ([]*domain.Referral, error) {
	query := `
		SELECT ` + referralColumns + `
		FROM referrals
		WHERE source_cpf = $1
		ORDER BY id
	`
	return s.list(ctx, query, sourceCPF)
}

func (s *PostgresReferralStore) list(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.Referral, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query referrals",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var referrals []*domain.Referral
	for rows.Next() {
		var referral domain.Referral
		err := rows.Scan(
			&referral.ID,
			&referral.SourceCPF,
			&referral.TargetCPF,
			&referral.Status,
			&referral.CreatedAt,
			&referral.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan referral row",
				slog.String("error", err.Error()))
			return nil, err
		}
		referrals = append(referrals, &referral)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if referrals == nil {
		referrals = []*domain.Referral{}
	}

	return referrals, nil
}

// ExistsByTarget implements store.ReferralStore.ExistsByTarget
func (s *PostgresReferralStore) ExistsByTarget(
	ctx context.Context,
	targetCPF string,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT EXISTS (SELECT 1 FROM referrals WHERE target_cpf = $1)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, targetCPF).Scan(&exists); err != nil {
		log.Error("failed to check referral existence",
			slog.String("error", err.Error()),
			slog.String("target_cpf", targetCPF))
		return false, err
	}

	return exists, nil
}

// Update implements store.ReferralStore.Update
// It persists the referral's status and updated_at timestamp, keyed by the
// surrogate ID. Source and target CPFs are immutable and never written.
// Returns store.ErrReferralNotFound if the referral does not exist.
func (s *PostgresReferralStore) Update(ctx context.Context, referral *domain.Referral) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE referrals
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, referral.Status, referral.UpdatedAt, referral.ID)
	if err != nil {
		log.Error("failed to update referral",
			slog.String("error", err.Error()),
			slog.Int64("referral_id", referral.ID))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("referral_id", referral.ID))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("referral not found for update",
			slog.Int64("referral_id", referral.ID))
		return store.ErrReferralNotFound
	}

	log.Info("referral updated successfully",
		slog.Int64("referral_id", referral.ID),
		slog.Bool("status", referral.Status))
	return nil
}

// DeleteExpiredPending implements store.ReferralStore.DeleteExpiredPending
// It removes every pending referral created at or before the cutoff and
// reports the number of rows deleted. Accepted referrals are never touched.
func (s *PostgresReferralStore) DeleteExpiredPending(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM referrals
		WHERE status = FALSE AND created_at <= $1
	`

	result, err := s.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		log.Error("failed to delete expired referrals",
			slog.String("error", err.Error()),
			slog.Time("cutoff", cutoff))
		return 0, err
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()))
		return 0, err
	}

	if deleted > 0 {
		log.Info("expired referrals purged",
			slog.Int64("deleted", deleted),
			slog.Time("cutoff", cutoff))
	}

	return deleted, nil
}
