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

// ReferralRepository defines the repository interface for the referral service.
type ReferralRepository interface {
	// Create saves a new referral to the store
	Create(ctx context.Context, referral *domain.Referral) error

	// GetByTarget retrieves the referral for the given target CPF
	GetByTarget(ctx context.Context, targetCPF string) (*domain.Referral, error)

	// GetByTargetForUpdate retrieves the referral with a row-level lock;
	// only meaningful inside a transaction
	GetByTargetForUpdate(ctx context.Context, targetCPF string) (*domain.Referral, error)

	// ListAll retrieves every referral
	ListAll(ctx context.Context) ([]*domain.Referral, error)

	// ListBySource retrieves referrals issued by the given source CPF
	ListBySource(ctx context.Context, sourceCPF string) ([]*domain.Referral, error)

	// ExistsByTarget reports whether any referral exists for the target CPF
	ExistsByTarget(ctx context.Context, targetCPF string) (bool, error)

	// Update persists the referral's status and updated_at timestamp
	Update(ctx context.Context, referral *domain.Referral) error

	// DeleteExpiredPending removes pending referrals older than the cutoff
	DeleteExpiredPending(ctx context.Context, cutoff time.Time) (int64, error)

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) ReferralRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// AcceptReferralRequest carries the caller-supplied fields of a referral
// update. Source and target CPFs must match the stored referral; they exist
// in the payload only so identity-change attempts can be detected and
// rejected.
type AcceptReferralRequest struct {
	SourceCPF string
	TargetCPF string
	Status    bool
}

// ReferralService provides referral creation, lookup, acceptance and the
// lazy expiry sweep.
type ReferralService interface {
	// PurgeExpired deletes pending referrals older than 30 days and reports
	// how many were removed. Runs implicitly before every other operation;
	// exposed for callers that want the count.
	PurgeExpired(ctx context.Context) (int64, error)

	// CreateReferral validates and creates a pending referral from source to
	// target.
	CreateReferral(ctx context.Context, sourceCPF, targetCPF string) (*domain.Referral, error)

	// GetReferralByTarget fetches the single active referral for the target CPF.
	GetReferralByTarget(ctx context.Context, targetCPF string) (*domain.Referral, error)

	// ListReferrals fetches all referrals.
	ListReferrals(ctx context.Context) ([]*domain.Referral, error)

	// ListReferralsBySource fetches the referrals issued by a registered client.
	ListReferralsBySource(ctx context.Context, sourceCPF string) ([]*domain.Referral, error)

	// AcceptReferral updates the referral for the target CPF. When the
	// request flips status to accepted, the referrer's point award and the
	// status flip commit in a single transaction.
	AcceptReferral(
		ctx context.Context,
		targetCPF string,
		req AcceptReferralRequest,
	) (*domain.Referral, error)
}

// referralServiceImpl implements the ReferralService interface
type referralServiceImpl struct {
	referralRepo ReferralRepository
	clientRepo   ClientRepository
	ids          identity.Validator
	logger       *slog.Logger
	now          func() time.Time
}

// NewReferralService creates a new ReferralService.
// It returns an error if any of the required dependencies are nil.
func NewReferralService(
	referralRepo ReferralRepository,
	clientRepo ClientRepository,
	ids identity.Validator,
	logger *slog.Logger,
) (ReferralService, error) {
	if referralRepo == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "referralRepo cannot be nil"}
	}
	if clientRepo == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "clientRepo cannot be nil"}
	}
	if ids == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "identity validator cannot be nil"}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &referralServiceImpl{
		referralRepo: referralRepo,
		clientRepo:   clientRepo,
		ids:          ids,
		logger:       logger.With(slog.String("component", "referral_service")),
		now:          func() time.Time { return time.Now().UTC() },
	}, nil
}

// PurgeExpired implements ReferralService.PurgeExpired
func (s *referralServiceImpl) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-domain.ReferralTTL)

	deleted, err := s.referralRepo.DeleteExpiredPending(ctx, cutoff)
	if err != nil {
		return 0, NewServiceError("purge_expired", "failed to delete expired referrals", err)
	}

	return deleted, nil
}

// purge runs the expiry sweep that precedes every referral-facing operation,
// so callers never observe a pending referral older than 30 days.
func (s *referralServiceImpl) purge(ctx context.Context) error {
	_, err := s.PurgeExpired(ctx)
	return err
}

// CreateReferral implements ReferralService.CreateReferral
//
// The validation chain runs in a fixed order and the first failing condition
// determines the returned error: CPF format, referrer registered, not a
// self-referral, target not registered, target not already referred.
func (s *referralServiceImpl) CreateReferral(
	ctx context.Context,
	sourceCPF, targetCPF string,
) (*domain.Referral, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Expired referrals must not block re-referral of the same target.
	if err := s.purge(ctx); err != nil {
		return nil, err
	}

	if err := s.ids.ValidateCPF("source_cpf", sourceCPF); err != nil {
		log.Warn("rejected referral with invalid source CPF",
			slog.String("error", err.Error()))
		return nil, err
	}
	if err := s.ids.ValidateCPF("target_cpf", targetCPF); err != nil {
		log.Warn("rejected referral with invalid target CPF",
			slog.String("error", err.Error()))
		return nil, err
	}

	if _, err := s.clientRepo.GetByCPF(ctx, sourceCPF); err != nil {
		if errors.Is(err, store.ErrClientNotFound) {
			log.Warn("non-registered client attempted a referral",
				slog.String("source_cpf", sourceCPF))
			return nil, ErrReferrerNotRegistered
		}
		return nil, NewServiceError("create_referral", "failed to check referrer", err)
	}

	if sourceCPF == targetCPF {
		log.Warn("client attempted to refer themselves",
			slog.String("source_cpf", sourceCPF))
		return nil, ErrSelfReferral
	}

	_, err := s.clientRepo.GetByCPF(ctx, targetCPF)
	if err == nil {
		log.Warn("client attempted to refer an already registered person",
			slog.String("target_cpf", targetCPF))
		return nil, ErrTargetAlreadyRegistered
	}
	if !errors.Is(err, store.ErrClientNotFound) {
		return nil, NewServiceError("create_referral", "failed to check target", err)
	}

	referred, err := s.referralRepo.ExistsByTarget(ctx, targetCPF)
	if err != nil {
		return nil, NewServiceError("create_referral", "failed to check existing referral", err)
	}
	if referred {
		log.Warn("person already has an outstanding referral",
			slog.String("target_cpf", targetCPF))
		return nil, ErrAlreadyReferred
	}

	referral, err := domain.NewReferral(sourceCPF, targetCPF, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.referralRepo.Create(ctx, referral); err != nil {
		// A concurrent creation for the same target loses the race at the
		// unique constraint; surface it the same as the precondition.
		if errors.Is(err, store.ErrTargetReferred) {
			return nil, ErrAlreadyReferred
		}
		return nil, NewServiceError("create_referral", "failed to save referral", err)
	}

	log.Info("referral registered",
		slog.Int64("referral_id", referral.ID),
		slog.String("source_cpf", referral.SourceCPF),
		slog.String("target_cpf", referral.TargetCPF))
	return referral, nil
}

// GetReferralByTarget implements ReferralService.GetReferralByTarget
func (s *referralServiceImpl) GetReferralByTarget(
	ctx context.Context,
	targetCPF string,
) (*domain.Referral, error) {
	if err := s.purge(ctx); err != nil {
		return nil, err
	}

	referral, err := s.referralRepo.GetByTarget(ctx, targetCPF)
	if err != nil {
		if errors.Is(err, store.ErrReferralNotFound) {
			return nil, ErrNoActiveReferral
		}
		return nil, NewServiceError("get_referral", "failed to retrieve referral", err)
	}

	return referral, nil
}

// ListReferrals implements ReferralService.ListReferrals
func (s *referralServiceImpl) ListReferrals(ctx context.Context) ([]*domain.Referral, error) {
	if err := s.purge(ctx); err != nil {
		return nil, err
	}

	referrals, err := s.referralRepo.ListAll(ctx)
	if err != nil {
		return nil, NewServiceError("list_referrals", "failed to list referrals", err)
	}

	return referrals, nil
}

// ListReferralsBySource implements ReferralService.ListReferralsBySource
func (s *referralServiceImpl) ListReferralsBySource(
	ctx context.Context,
	sourceCPF string,
) ([]*domain.Referral, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.purge(ctx); err != nil {
		return nil, err
	}

	if _, err := s.clientRepo.GetByCPF(ctx, sourceCPF); err != nil {
		if errors.Is(err, store.ErrClientNotFound) {
			log.Warn("referral listing requested for unknown client",
				slog.String("source_cpf", sourceCPF))
			return nil, ErrReferrerNotRegistered
		}
		return nil, NewServiceError("list_referrals_by_source", "failed to check client", err)
	}

	referrals, err := s.referralRepo.ListBySource(ctx, sourceCPF)
	if err != nil {
		return nil, NewServiceError("list_referrals_by_source", "failed to list referrals", err)
	}

	if len(referrals) == 0 {
		return nil, ErrNoReferrals
	}

	return referrals, nil
}

// AcceptReferral implements ReferralService.AcceptReferral
//
// Accepting awards the referrer exactly once: the referral row is locked for
// the duration of the transaction, so a concurrent accept for the same target
// waits and then observes status=true, skipping the award. The point credit
// and the status flip commit together or not at all.
func (s *referralServiceImpl) AcceptReferral(
	ctx context.Context,
	targetCPF string,
	req AcceptReferralRequest,
) (*domain.Referral, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.purge(ctx); err != nil {
		return nil, err
	}

	if err := s.ids.ValidateCPF("source_cpf", req.SourceCPF); err != nil {
		return nil, err
	}
	if err := s.ids.ValidateCPF("target_cpf", req.TargetCPF); err != nil {
		return nil, err
	}

	var updated *domain.Referral
	err := store.RunInTransaction(
		ctx,
		s.referralRepo.DB(),
		func(ctx context.Context, tx *sql.Tx) error {
			txReferralRepo := s.referralRepo.WithTx(tx)
			txClientRepo := s.clientRepo.WithTx(tx)

			referral, err := txReferralRepo.GetByTargetForUpdate(ctx, targetCPF)
			if err != nil {
				if errors.Is(err, store.ErrReferralNotFound) {
					return ErrNoActiveReferral
				}
				return NewServiceError("accept_referral", "failed to retrieve referral", err)
			}

			if req.TargetCPF != referral.TargetCPF || req.SourceCPF != referral.SourceCPF {
				log.Warn("referral update attempted to change CPFs",
					slog.Int64("referral_id", referral.ID))
				return ErrIdentityChange
			}

			now := s.now()

			if req.Status {
				if referral.Accept(now) {
					// First acceptance: credit the referrer in the same
					// transaction as the status flip.
					err := txClientRepo.AddPoints(ctx, referral.SourceCPF, domain.ReferralAward, now)
					if err != nil {
						if errors.Is(err, store.ErrClientNotFound) {
							return NewServiceError("accept_referral",
								"referrer no longer registered", err)
						}
						return NewServiceError("accept_referral", "failed to award points", err)
					}

					if err := txReferralRepo.Update(ctx, referral); err != nil {
						return NewServiceError("accept_referral", "failed to save referral", err)
					}

					log.Info("referral accepted, points awarded",
						slog.Int64("referral_id", referral.ID),
						slog.String("source_cpf", referral.SourceCPF),
						slog.Int("award", domain.ReferralAward))
				} else {
					log.Debug("referral already accepted, no award",
						slog.Int64("referral_id", referral.ID))
				}
			} else {
				if referral.Status {
					// Acceptance is terminal; there is no transition back to
					// pending.
					return ErrAlreadyAccepted
				}

				referral.UpdatedAt = now
				if err := txReferralRepo.Update(ctx, referral); err != nil {
					return NewServiceError("accept_referral", "failed to save referral", err)
				}

				log.Info("referral updated without acceptance",
					slog.Int64("referral_id", referral.ID))
			}

			updated = referral
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return updated, nil
}
