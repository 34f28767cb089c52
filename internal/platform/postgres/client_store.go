package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lfarias/loyalty-api/internal/domain"
	"github.com/lfarias/loyalty-api/internal/platform/logger"
	"github.com/lfarias/loyalty-api/internal/store"
)

// PostgresClientStore implements the store.ClientStore interface
// using a PostgreSQL database as the storage backend.
type PostgresClientStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresClientStore creates a new PostgreSQL implementation of the ClientStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresClientStore(db store.DBTX, logger *slog.Logger) *PostgresClientStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresClientStore{
		db:     db,
		logger: logger.With(slog.String("component", "client_store")),
	}
}

// Ensure PostgresClientStore implements store.ClientStore interface
var _ store.ClientStore = (*PostgresClientStore)(nil)

// WithTx implements store.ClientStore.WithTx
func (s *PostgresClientStore) WithTx(tx *sql.Tx) store.ClientStore {
	return &PostgresClientStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ClientStore.Create
// It saves a new client to the database, handling domain validation.
// Returns store.ErrClientExists if the CPF is already registered.
func (s *PostgresClientStore) Create(ctx context.Context, client *domain.Client) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := client.Validate(); err != nil {
		log.Warn("client validation failed during create",
			slog.String("error", err.Error()),
			slog.String("cpf", client.CPF))
		return err
	}

	query := `
		INSERT INTO clients (cpf, name, phone, email, points, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		client.CPF,
		client.Name,
		client.Phone,
		client.Email,
		client.Points,
		client.CreatedAt,
		client.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("duplicate CPF during client creation",
				slog.String("cpf", client.CPF))
			return store.ErrClientExists
		}

		log.Error("failed to create client",
			slog.String("error", err.Error()),
			slog.String("cpf", client.CPF))
		return err
	}

	log.Info("client created successfully",
		slog.String("cpf", client.CPF))
	return nil
}

// GetByCPF implements store.ClientStore.GetByCPF
// Returns store.ErrClientNotFound if the client does not exist.
func (s *PostgresClientStore) GetByCPF(ctx context.Context, cpf string) (*domain.Client, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving client by CPF", slog.String("cpf", cpf))

	query := `
		SELECT cpf, name, phone, email, points, created_at, updated_at
		FROM clients
		WHERE cpf = $1
	`

	var client domain.Client
	err := s.db.QueryRowContext(ctx, query, cpf).Scan(
		&client.CPF,
		&client.Name,
		&client.Phone,
		&client.Email,
		&client.Points,
		&client.CreatedAt,
		&client.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("client not found", slog.String("cpf", cpf))
			return nil, store.ErrClientNotFound
		}
		log.Error("failed to get client by CPF",
			slog.String("error", err.Error()),
			slog.String("cpf", cpf))
		return nil, err
	}

	return &client, nil
}

// Update implements store.ClientStore.Update
// It persists the client's profile fields and updated_at timestamp. The CPF
// is the lookup key; points are deliberately excluded so a profile update can
// never change the counter.
// Returns store.ErrClientNotFound if the client does not exist.
func (s *PostgresClientStore) Update(ctx context.Context, client *domain.Client) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := client.Validate(); err != nil {
		log.Warn("client validation failed during update",
			slog.String("error", err.Error()),
			slog.String("cpf", client.CPF))
		return err
	}

	query := `
		UPDATE clients
		SET name = $1, phone = $2, email = $3, updated_at = $4
		WHERE cpf = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		client.Name,
		client.Phone,
		client.Email,
		client.UpdatedAt,
		client.CPF,
	)

	if err != nil {
		log.Error("failed to update client",
			slog.String("error", err.Error()),
			slog.String("cpf", client.CPF))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("cpf", client.CPF))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("client not found for update",
			slog.String("cpf", client.CPF))
		return store.ErrClientNotFound
	}

	log.Info("client updated successfully",
		slog.String("cpf", client.CPF))
	return nil
}

// AddPoints implements store.ClientStore.AddPoints
// It atomically increments the client's points counter. The non-negative
// points check lives in the schema, so a negative balance can never be
// committed even under a concurrent decrement.
// Returns store.ErrClientNotFound if the client does not exist.
func (s *PostgresClientStore) AddPoints(
	ctx context.Context,
	cpf string,
	delta int,
	updatedAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE clients
		SET points = points + $1, updated_at = $2
		WHERE cpf = $3
	`

	result, err := s.db.ExecContext(ctx, query, delta, updatedAt, cpf)
	if err != nil {
		if isCheckViolation(err) {
			log.Warn("points increment rejected by balance constraint",
				slog.String("cpf", cpf),
				slog.Int("delta", delta))
			return fmt.Errorf("%w: points cannot go negative", store.ErrInvalidEntity)
		}
		log.Error("failed to add points",
			slog.String("error", err.Error()),
			slog.String("cpf", cpf),
			slog.Int("delta", delta))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("cpf", cpf))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("client not found for points update",
			slog.String("cpf", cpf))
		return store.ErrClientNotFound
	}

	log.Info("points added successfully",
		slog.String("cpf", cpf),
		slog.Int("delta", delta))
	return nil
}
