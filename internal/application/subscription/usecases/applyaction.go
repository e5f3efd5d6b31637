package usecases

import (
	"context"
	"fmt"
	"time"

	pvo "gluco/internal/domain/payment/valueobjects"
	"gluco/internal/domain/plan"
	"gluco/internal/domain/subscription"
	svo "gluco/internal/domain/subscription/valueobjects"
	"gluco/internal/shared/biztime"
	"gluco/internal/shared/db"
	apperrors "gluco/internal/shared/errors"
	"gluco/internal/shared/logger"
)

// ApplyActionCommand requests one state transition on a user's ledger.
// ExpectedPayment is the amount actually authorized; it must equal the
// current quote exactly, guarding against tampering between quote and
// confirmation.
type ApplyActionCommand struct {
	UserID          string
	Action          svo.ActionType
	PlanID          string
	ExpectedPayment pvo.Money
	At              time.Time
}

// ApplyActionUseCase is the subscription ledger's single mutation path.
// Both the direct client flow and webhook reconciliation go through it, so
// the two can never disagree on what constitutes a legal transition.
type ApplyActionUseCase struct {
	repo    subscription.SubscriptionRepository
	catalog *plan.Catalog
	txm     *db.TransactionManager
	logger  logger.Interface
}

func NewApplyActionUseCase(
	repo subscription.SubscriptionRepository,
	catalog *plan.Catalog,
	txm *db.TransactionManager,
	logger logger.Interface,
) *ApplyActionUseCase {
	return &ApplyActionUseCase{
		repo:    repo,
		catalog: catalog,
		txm:     txm,
		logger:  logger,
	}
}

// Execute validates the action against the freshly refreshed ledger and
// applies its effects in one transaction. The user's non-terminal rows are
// locked for the whole check-then-apply sequence.
func (uc *ApplyActionUseCase) Execute(ctx context.Context, cmd ApplyActionCommand) error {
	if cmd.UserID == "" {
		return apperrors.NewValidationError("user ID is required")
	}
	if !cmd.Action.IsValid() {
		return apperrors.NewValidationError("invalid action", cmd.Action.String())
	}
	at := cmd.At
	if at.IsZero() {
		at = biztime.NowUTC()
	}

	p, err := uc.catalog.Get(cmd.PlanID)
	if err != nil {
		return err
	}

	return uc.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		rows, err := uc.repo.ListNonTerminalForUpdate(txCtx, cmd.UserID)
		if err != nil {
			return fmt.Errorf("failed to load subscriptions: %w", err)
		}

		state, err := subscription.RefreshLedger(txCtx, uc.repo, rows, at)
		if err != nil {
			return err
		}

		// Defense in depth: the offer computation below already yields no
		// offers while a future row is queued.
		if state.Future != nil {
			return apperrors.NewConflictError("user already has a future subscription")
		}

		offers, err := subscription.AvailableActions(uc.catalog, state.Active, nil, at)
		if err != nil {
			return err
		}

		offer := subscription.MatchOffer(offers, cmd.Action, cmd.PlanID)
		if offer == nil {
			return apperrors.NewValidationError("action is not available",
				fmt.Sprintf("action=%s plan=%s", cmd.Action, cmd.PlanID))
		}

		if !offer.Payment.Equals(cmd.ExpectedPayment) {
			uc.logger.Warnw("payment amount mismatch",
				"user_id", cmd.UserID,
				"plan_id", cmd.PlanID,
				"quoted", offer.Payment.String(),
				"got", cmd.ExpectedPayment.String())
			return apperrors.NewValidationError("payment amount mismatch",
				fmt.Sprintf("expected %s, got %s", offer.Payment, cmd.ExpectedPayment))
		}

		if err := uc.applyEffects(txCtx, cmd.UserID, state, p, cmd.Action, at); err != nil {
			return err
		}

		uc.logger.Infow("subscription action applied",
			"user_id", cmd.UserID,
			"action", cmd.Action.String(),
			"plan_id", cmd.PlanID,
			"payment_fen", cmd.ExpectedPayment.AmountInFen())

		return nil
	})
}

func (uc *ApplyActionUseCase) applyEffects(ctx context.Context, userID string,
	state subscription.Ledger, p *plan.Plan, action svo.ActionType, at time.Time) error {

	if action == svo.ActionRenewal {
		// Chained succession: the new row starts when the current one ends
		// and stays future until a later refresh promotes it. The current
		// row keeps counting down untouched.
		if state.Active == nil {
			return apperrors.NewValidationError("renewal requires an active subscription")
		}
		start := state.Active.ExpiresAt()
		row, err := subscription.NewSubscription(userID, p.ID(),
			svo.StatusFuture, start, biztime.AddDays(start, p.DurationDays()))
		if err != nil {
			return err
		}
		return uc.repo.Create(ctx, row)
	}

	// Upgrade (or first purchase): supersession, not chaining. The new row
	// takes over immediately; lifetime only differs in duration via the
	// far-future sentinel.
	row, err := subscription.NewSubscription(userID, p.ID(),
		svo.StatusActive, at, biztime.AddDays(at, p.DurationDays()))
	if err != nil {
		return err
	}
	if err := uc.repo.Create(ctx, row); err != nil {
		return err
	}

	if state.Active != nil {
		if err := state.Active.Supersede(at); err != nil {
			return err
		}
		return uc.repo.Update(ctx, state.Active)
	}
	return nil
}
