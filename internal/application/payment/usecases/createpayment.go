package usecases

import (
	"context"
	"fmt"
	"time"

	"gluco/internal/application/payment/paymentgateway"
	"gluco/internal/domain/plan"
	"gluco/internal/domain/subscription"
	svo "gluco/internal/domain/subscription/valueobjects"
	"gluco/internal/shared/biztime"
	"gluco/internal/shared/db"
	apperrors "gluco/internal/shared/errors"
	"gluco/internal/shared/logger"
)

// CreatePaymentCommand asks for gateway authorization parameters for one
// subscription action.
type CreatePaymentCommand struct {
	UserID string
	Action svo.ActionType
	PlanID string
	At     time.Time
}

// CreatePaymentUseCase re-derives the offer server-side and asks the gateway
// for prepay parameters. The client never supplies an amount; whatever it
// claims to have quoted is ignored and the charge is always the current
// server-computed payment.
type CreatePaymentUseCase struct {
	subscriptions subscription.SubscriptionRepository
	catalog       *plan.Catalog
	gateway       paymentgateway.Gateway
	txm           *db.TransactionManager
	logger        logger.Interface
}

func NewCreatePaymentUseCase(
	subscriptions subscription.SubscriptionRepository,
	catalog *plan.Catalog,
	gateway paymentgateway.Gateway,
	txm *db.TransactionManager,
	logger logger.Interface,
) *CreatePaymentUseCase {
	return &CreatePaymentUseCase{
		subscriptions: subscriptions,
		catalog:       catalog,
		gateway:       gateway,
		txm:           txm,
		logger:        logger,
	}
}

func (uc *CreatePaymentUseCase) Execute(ctx context.Context, cmd CreatePaymentCommand) (*paymentgateway.PrepayParams, error) {
	if cmd.UserID == "" {
		return nil, apperrors.NewValidationError("user ID is required")
	}
	if !cmd.Action.IsValid() {
		return nil, apperrors.NewValidationError("invalid action", cmd.Action.String())
	}
	at := cmd.At
	if at.IsZero() {
		at = biztime.NowUTC()
	}

	// Validate against the live ledger inside a transaction, but hold no
	// locks across the gateway call.
	var offer *subscription.Offer
	err := uc.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		rows, err := uc.subscriptions.ListNonTerminalForUpdate(txCtx, cmd.UserID)
		if err != nil {
			return fmt.Errorf("failed to load subscriptions: %w", err)
		}
		state, err := subscription.RefreshLedger(txCtx, uc.subscriptions, rows, at)
		if err != nil {
			return err
		}
		offers, err := subscription.AvailableActions(uc.catalog, state.Active, state.Future, at)
		if err != nil {
			return err
		}
		offer = subscription.MatchOffer(offers, cmd.Action, cmd.PlanID)
		if offer == nil {
			return apperrors.NewValidationError("action is not available",
				fmt.Sprintf("action=%s plan=%s", cmd.Action, cmd.PlanID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	outTradeNo := BuildOutTradeNo(cmd.Action, cmd.PlanID, at)
	params, err := uc.gateway.Prepay(ctx, paymentgateway.PrepayOrder{
		OutTradeNo:  outTradeNo,
		Description: offer.Name,
		AmountTotal: offer.Payment.AmountInFen(),
		PayerID:     cmd.UserID,
	})
	if err != nil {
		return nil, apperrors.NewGatewayError("failed to create prepay order", err.Error())
	}

	uc.logger.Infow("prepay order created",
		"user_id", cmd.UserID,
		"out_trade_no", outTradeNo,
		"amount_fen", offer.Payment.AmountInFen())

	return params, nil
}

// BuildOutTradeNo encodes the requested action into the merchant order
// number so the asynchronous notification can recover it. The layout is
// "{action}_{plan_id}_{unix_ts}"; plan ids never contain underscores, so
// splitting on the first two underscores is unambiguous.
func BuildOutTradeNo(action svo.ActionType, planID string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%d", action, planID, at.Unix())
}
