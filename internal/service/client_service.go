package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/lfarias/loyalty-api/internal/domain"
	"github.com/lfarias/loyalty-api/internal/platform/identity"
	"github.com/lfarias/loyalty-api/internal/platform/logger"
	"github.com/lfarias/loyalty-api/internal/store"
)

// ClientRepository defines the repository interface for the client service.
type ClientRepository interface {
	// Create saves a new client to the store
	Create(ctx context.Context, client *domain.Client) error

	// GetByCPF retrieves a client by their CPF
	GetByCPF(ctx context.Context, cpf string) (*domain.Client, error)

	// Update persists a client's profile fields
	Update(ctx context.Context, client *domain.Client) error

	// AddPoints atomically increments the client's points counter
	AddPoints(ctx context.Context, cpf string, delta int, updatedAt time.Time) error

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) ClientRepository
}

// ClientService provides client profile operations.
type ClientService interface {
	// CreateClient registers a new client with zero points.
	CreateClient(ctx context.Context, cpf, name, phone, email string) (*domain.Client, error)

	// GetClient retrieves a client by CPF.
	GetClient(ctx context.Context, cpf string) (*domain.Client, error)

	// UpdateClient updates a client's profile. The CPF in the payload must
	// match the lookup CPF; the points counter is never writable here.
	UpdateClient(ctx context.Context, cpf, newCPF, name, phone, email string) (*domain.Client, error)
}

// clientServiceImpl implements the ClientService interface
type clientServiceImpl struct {
	clientRepo ClientRepository
	ids        identity.Validator
	logger     *slog.Logger
	now        func() time.Time
}

// NewClientService creates a new ClientService.
// It returns an error if any of the required dependencies are nil.
func NewClientService(
	clientRepo ClientRepository,
	ids identity.Validator,
	logger *slog.Logger,
) (ClientService, error) {
	if clientRepo == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "clientRepo cannot be nil"}
	}
	if ids == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "identity validator cannot be nil"}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &clientServiceImpl{
		clientRepo: clientRepo,
		ids:        ids,
		logger:     logger.With(slog.String("component", "client_service")),
		now:        func() time.Time { return time.Now().UTC() },
	}, nil
}

// CreateClient implements ClientService.CreateClient
func (s *clientServiceImpl) CreateClient(
	ctx context.Context,
	cpf, name, phone, email string,
) (*domain.Client, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.ids.ValidateCPF("cpf", cpf); err != nil {
		log.Warn("rejected client creation with invalid CPF",
			slog.String("error", err.Error()))
		return nil, err
	}

	client, err := domain.NewClient(cpf, name, phone, email, s.now())
	if err != nil {
		log.Warn("client validation failed",
			slog.String("error", err.Error()),
			slog.String("cpf", cpf))
		return nil, err
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		if errors.Is(err, store.ErrClientExists) {
			return nil, ErrClientExists
		}
		return nil, NewServiceError("create_client", "failed to save client", err)
	}

	log.Info("client registered",
		slog.String("cpf", client.CPF))
	return client, nil
}

// GetClient implements ClientService.GetClient
func (s *clientServiceImpl) GetClient(ctx context.Context, cpf string) (*domain.Client, error) {
	client, err := s.clientRepo.GetByCPF(ctx, cpf)
	if err != nil {
		if errors.Is(err, store.ErrClientNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, NewServiceError("get_client", "failed to retrieve client", err)
	}
	return client, nil
}

// UpdateClient implements ClientService.UpdateClient
// The CPF is immutable: a payload CPF differing from the lookup CPF is
// rejected before anything is read or written.
func (s *clientServiceImpl) UpdateClient(
	ctx context.Context,
	cpf, newCPF, name, phone, email string,
) (*domain.Client, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if newCPF != cpf {
		log.Warn("client attempted to change CPF",
			slog.String("cpf", cpf))
		return nil, ErrIdentityChange
	}

	client, err := s.clientRepo.GetByCPF(ctx, cpf)
	if err != nil {
		if errors.Is(err, store.ErrClientNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, NewServiceError("update_client", "failed to retrieve client", err)
	}

	if err := client.ApplyProfile(name, phone, email, s.now()); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		if errors.Is(err, store.ErrClientNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, NewServiceError("update_client", "failed to save client", err)
	}

	log.Info("client profile updated",
		slog.String("cpf", client.CPF))
	return client, nil
}
