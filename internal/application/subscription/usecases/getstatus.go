package usecases

import (
	"context"
	"fmt"
	"time"

	"gluco/internal/application/subscription/dto"
	"gluco/internal/domain/plan"
	"gluco/internal/domain/subscription"
	svo "gluco/internal/domain/subscription/valueobjects"
	"gluco/internal/shared/biztime"
	"gluco/internal/shared/db"
	apperrors "gluco/internal/shared/errors"
	"gluco/internal/shared/logger"
)

// GetStatusQuery asks for one user's subscription status view.
type GetStatusQuery struct {
	UserID string
	At     time.Time
}

// GetStatusUseCase reads the ledger. It still opens a transaction: the lazy
// refresh step may flip row statuses, and those writes must commit with the
// read they informed.
type GetStatusUseCase struct {
	repo    subscription.SubscriptionRepository
	catalog *plan.Catalog
	txm     *db.TransactionManager
	logger  logger.Interface
}

func NewGetStatusUseCase(
	repo subscription.SubscriptionRepository,
	catalog *plan.Catalog,
	txm *db.TransactionManager,
	logger logger.Interface,
) *GetStatusUseCase {
	return &GetStatusUseCase{
		repo:    repo,
		catalog: catalog,
		txm:     txm,
		logger:  logger,
	}
}

func (uc *GetStatusUseCase) Execute(ctx context.Context, q GetStatusQuery) (*dto.StatusResult, error) {
	if q.UserID == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}
	at := q.At
	if at.IsZero() {
		at = biztime.NowUTC()
	}

	var result *dto.StatusResult
	err := uc.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		rows, err := uc.repo.ListNonTerminalForUpdate(txCtx, q.UserID)
		if err != nil {
			return fmt.Errorf("failed to load subscriptions: %w", err)
		}

		state, err := subscription.RefreshLedger(txCtx, uc.repo, rows, at)
		if err != nil {
			return err
		}

		result, err = uc.buildResult(state, at)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *GetStatusUseCase) buildResult(state subscription.Ledger, at time.Time) (*dto.StatusResult, error) {
	offers, err := subscription.AvailableActions(uc.catalog, state.Active, state.Future, at)
	if err != nil {
		return nil, err
	}
	offerDTOs := toOfferDTOs(offers)

	if state.Active == nil {
		return &dto.StatusResult{
			Status:           svo.StatusInactive.String(),
			AvailableActions: offerDTOs,
		}, nil
	}

	p, err := uc.catalog.Get(state.Active.PlanID())
	if err != nil {
		return nil, err
	}

	start := state.Active.StartDate()
	expires := state.Active.ExpiresAt()
	result := &dto.StatusResult{
		Status:           state.Active.Status().String(),
		PlanID:           state.Active.PlanID(),
		PlanName:         p.Name(),
		StartDate:        &start,
		ExpiresAt:        &expires,
		AvailableActions: offerDTOs,
	}
	if state.Future != nil {
		next := state.Future.ExpiresAt()
		result.NextExpiresAt = &next
	}
	return result, nil
}

func toOfferDTOs(offers []subscription.Offer) []dto.OfferDTO {
	out := make([]dto.OfferDTO, 0, len(offers))
	for _, o := range offers {
		out = append(out, dto.OfferDTO{
			Action:       o.Action.String(),
			PlanID:       o.PlanID,
			Name:         o.Name,
			PriceFen:     o.Price.AmountInFen(),
			DurationDays: o.DurationDays,
			Description:  o.Description,
			CreditFen:    o.Credit.AmountInFen(),
			PaymentFen:   o.Payment.AmountInFen(),
		})
	}
	return out
}
