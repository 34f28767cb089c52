package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lfarias/loyalty-api/internal/config"
	"github.com/lfarias/loyalty-api/internal/platform/identity"
	"github.com/lfarias/loyalty-api/internal/platform/postgres"
	"github.com/lfarias/loyalty-api/internal/service"
	"github.com/lfarias/loyalty-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	clientStore   store.ClientStore
	referralStore store.ReferralStore

	clientService   service.ClientService
	referralService service.ReferralService
}

// newApplication wires stores and services from the given configuration,
// logger and database connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	clientStore := postgres.NewPostgresClientStore(db, logger)
	referralStore := postgres.NewPostgresReferralStore(db, logger)

	cpfValidator := identity.NewCPFValidator()

	clientRepo := service.NewClientRepository(clientStore)
	referralRepo := service.NewReferralRepository(referralStore, db)

	clientService, err := service.NewClientService(clientRepo, cpfValidator, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create client service: %w", err)
	}

	referralService, err := service.NewReferralService(referralRepo, clientRepo, cpfValidator, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create referral service: %w", err)
	}

	return &application{
		config:          cfg,
		logger:          logger,
		db:              db,
		clientStore:     clientStore,
		referralStore:   referralStore,
		clientService:   clientService,
		referralService: referralService,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
