package usecases

import (
	"context"
	"fmt"
	"time"

	"gluco/internal/domain/plan"
	"gluco/internal/domain/subscription"
	svo "gluco/internal/domain/subscription/valueobjects"
	"gluco/internal/shared/biztime"
	"gluco/internal/shared/db"
	apperrors "gluco/internal/shared/errors"
	"gluco/internal/shared/logger"
)

// BootstrapTrialCommand grants the trial plan to a brand-new user.
type BootstrapTrialCommand struct {
	UserID string
	At     time.Time
}

// BootstrapTrialUseCase creates the trial subscription on first contact.
// Users with any subscription history, including an expired trial, get
// nothing: the trial is strictly one-shot.
type BootstrapTrialUseCase struct {
	repo    subscription.SubscriptionRepository
	catalog *plan.Catalog
	txm     *db.TransactionManager
	logger  logger.Interface
}

func NewBootstrapTrialUseCase(
	repo subscription.SubscriptionRepository,
	catalog *plan.Catalog,
	txm *db.TransactionManager,
	logger logger.Interface,
) *BootstrapTrialUseCase {
	return &BootstrapTrialUseCase{
		repo:    repo,
		catalog: catalog,
		txm:     txm,
		logger:  logger,
	}
}

func (uc *BootstrapTrialUseCase) Execute(ctx context.Context, cmd BootstrapTrialCommand) error {
	if cmd.UserID == "" {
		return apperrors.NewValidationError("user ID is required")
	}
	at := cmd.At
	if at.IsZero() {
		at = biztime.NowUTC()
	}

	trial, err := uc.catalog.Get(plan.TrialID)
	if err != nil {
		return err
	}

	return uc.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		hasHistory, err := uc.repo.HasHistory(txCtx, cmd.UserID)
		if err != nil {
			return fmt.Errorf("failed to check subscription history: %w", err)
		}
		if hasHistory {
			return nil
		}

		row, err := subscription.NewSubscription(cmd.UserID, trial.ID(),
			svo.StatusActive, at, biztime.AddDays(at, trial.DurationDays()))
		if err != nil {
			return err
		}
		if err := uc.repo.Create(txCtx, row); err != nil {
			return fmt.Errorf("failed to create trial subscription: %w", err)
		}

		uc.logger.Infow("trial subscription created",
			"user_id", cmd.UserID,
			"expires_at", row.ExpiresAt())
		return nil
	})
}
