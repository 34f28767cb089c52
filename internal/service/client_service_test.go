package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lfarias/loyalty-api/internal/domain"
	"github.com/lfarias/loyalty-api/internal/store"
)

// MockClientRepository is a mock implementation of the ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) GetByCPF(ctx context.Context, cpf string) (*domain.Client, error) {
	args := m.Called(ctx, cpf)
	client, _ := args.Get(0).(*domain.Client)
	return client, args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, client *domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) AddPoints(
	ctx context.Context,
	cpf string,
	delta int,
	updatedAt time.Time,
) error {
	args := m.Called(ctx, cpf, delta, updatedAt)
	return args.Error(0)
}

func (m *MockClientRepository) WithTx(tx *sql.Tx) ClientRepository {
	args := m.Called(tx)
	repo, _ := args.Get(0).(ClientRepository)
	if repo == nil {
		return m
	}
	return repo
}

// stubIdentityValidator accepts any numeric 11-digit string, so service tests
// do not depend on real checksum digits.
type stubIdentityValidator struct{}

func (stubIdentityValidator) ValidateCPF(field, cpf string) error {
	if cpf == "" {
		return domain.NewValidationError(field, "is required", domain.ErrValidation)
	}
	if !domain.IsNumeric(cpf) {
		return domain.NewValidationError(field, "must contain only numbers", domain.ErrCPFNotNumeric)
	}
	return nil
}

// rejectingIdentityValidator fails every CPF with a checksum error.
type rejectingIdentityValidator struct{}

func (rejectingIdentityValidator) ValidateCPF(field, cpf string) error {
	return domain.NewValidationError(field, "is not a valid CPF", domain.ErrInvalidCPF)
}

func newTestClientService(t *testing.T, repo ClientRepository) ClientService {
	t.Helper()
	svc, err := NewClientService(repo, stubIdentityValidator{}, slog.Default())
	require.NoError(t, err)
	return svc
}

func TestClientService_CreateClient(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := &MockClientRepository{}
		repo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Client) bool {
			return c.CPF == "11987098390" && c.Points == 0
		})).Return(nil)

		svc := newTestClientService(t, repo)

		client, err := svc.CreateClient(ctx, "11987098390", "Ana Souza", "11999990000", "ana@example.com")
		require.NoError(t, err)
		assert.Equal(t, "11987098390", client.CPF)
		assert.Equal(t, 0, client.Points)
		repo.AssertExpectations(t)
	})

	t.Run("invalid CPF checksum", func(t *testing.T) {
		repo := &MockClientRepository{}
		svc, err := NewClientService(repo, rejectingIdentityValidator{}, slog.Default())
		require.NoError(t, err)

		_, err = svc.CreateClient(ctx, "11987098390", "Ana Souza", "11999990000", "ana@example.com")
		assert.ErrorIs(t, err, domain.ErrInvalidCPF)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("non-numeric CPF", func(t *testing.T) {
		repo := &MockClientRepository{}
		svc := newTestClientService(t, repo)

		_, err := svc.CreateClient(ctx, "119870983-0", "Ana Souza", "11999990000", "ana@example.com")
		assert.ErrorIs(t, err, domain.ErrCPFNotNumeric)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("duplicate CPF", func(t *testing.T) {
		repo := &MockClientRepository{}
		repo.On("Create", mock.Anything, mock.Anything).Return(store.ErrClientExists)

		svc := newTestClientService(t, repo)

		_, err := svc.CreateClient(ctx, "11987098390", "Ana Souza", "11999990000", "ana@example.com")
		assert.ErrorIs(t, err, ErrClientExists)
	})

	t.Run("invalid email", func(t *testing.T) {
		repo := &MockClientRepository{}
		svc := newTestClientService(t, repo)

		_, err := svc.CreateClient(ctx, "11987098390", "Ana Souza", "11999990000", "broken")
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		repo := &MockClientRepository{}
		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		svc := newTestClientService(t, repo)

		_, err := svc.CreateClient(ctx, "11987098390", "Ana Souza", "11999990000", "ana@example.com")
		require.Error(t, err)

		var svcErr *ServiceError
		assert.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "create_client", svcErr.Operation)
	})
}

func TestClientService_GetClient(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		existing := &domain.Client{CPF: "11987098390", Name: "Ana Souza", Points: 10}
		repo := &MockClientRepository{}
		repo.On("GetByCPF", mock.Anything, "11987098390").Return(existing, nil)

		svc := newTestClientService(t, repo)

		client, err := svc.GetClient(ctx, "11987098390")
		require.NoError(t, err)
		assert.Equal(t, existing, client)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &MockClientRepository{}
		repo.On("GetByCPF", mock.Anything, "11987098390").Return(nil, store.ErrClientNotFound)

		svc := newTestClientService(t, repo)

		_, err := svc.GetClient(ctx, "11987098390")
		assert.ErrorIs(t, err, ErrClientNotFound)
	})
}

func TestClientService_UpdateClient(t *testing.T) {
	ctx := context.Background()

	existing := func() *domain.Client {
		return &domain.Client{
			CPF:    "11987098390",
			Name:   "Ana Souza",
			Phone:  "11999990000",
			Email:  "ana@example.com",
			Points: 20,
		}
	}

	t.Run("success", func(t *testing.T) {
		repo := &MockClientRepository{}
		repo.On("GetByCPF", mock.Anything, "11987098390").Return(existing(), nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(c *domain.Client) bool {
			return c.Name == "Ana S. Lima" && c.Points == 20
		})).Return(nil)

		svc := newTestClientService(t, repo)

		client, err := svc.UpdateClient(
			ctx, "11987098390", "11987098390", "Ana S. Lima", "11888880000", "ana.lima@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Ana S. Lima", client.Name)
		assert.Equal(t, 20, client.Points, "update must never touch points")
		repo.AssertExpectations(t)
	})

	t.Run("CPF change is rejected before any read", func(t *testing.T) {
		repo := &MockClientRepository{}
		svc := newTestClientService(t, repo)

		_, err := svc.UpdateClient(
			ctx, "11987098390", "22222222222", "Ana Souza", "11999990000", "ana@example.com")
		assert.ErrorIs(t, err, ErrIdentityChange)
		repo.AssertNotCalled(t, "GetByCPF")
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("unknown client", func(t *testing.T) {
		repo := &MockClientRepository{}
		repo.On("GetByCPF", mock.Anything, "11987098390").Return(nil, store.ErrClientNotFound)

		svc := newTestClientService(t, repo)

		_, err := svc.UpdateClient(
			ctx, "11987098390", "11987098390", "Ana Souza", "11999990000", "ana@example.com")
		assert.ErrorIs(t, err, ErrClientNotFound)
	})

	t.Run("invalid profile leaves client untouched", func(t *testing.T) {
		repo := &MockClientRepository{}
		repo.On("GetByCPF", mock.Anything, "11987098390").Return(existing(), nil)

		svc := newTestClientService(t, repo)

		_, err := svc.UpdateClient(
			ctx, "11987098390", "11987098390", "Ana Souza", "11999990000", "broken")
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
		repo.AssertNotCalled(t, "Update")
	})
}
