package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"gluco/internal/application/payment/paymentgateway"
	subusecases "gluco/internal/application/subscription/usecases"
	"gluco/internal/domain/payment"
	pvo "gluco/internal/domain/payment/valueobjects"
	"gluco/internal/domain/subscription"
	svo "gluco/internal/domain/subscription/valueobjects"
	"gluco/internal/shared/biztime"
	"gluco/internal/shared/db"
	apperrors "gluco/internal/shared/errors"
	"gluco/internal/shared/logger"
)

// eventTypeTransactionSuccess is the only notification event that carries a
// completed payment. Everything else is acknowledged and dropped.
const eventTypeTransactionSuccess = "TRANSACTION.SUCCESS"

// notificationEnvelope is the outer JSON of a gateway webhook. Only the
// encrypted resource matters; the envelope fields themselves are untrusted
// until the signature check passes.
type notificationEnvelope struct {
	ID        string                          `json:"id"`
	EventType string                          `json:"event_type"`
	Resource  paymentgateway.EncryptedResource `json:"resource"`
}

// HandleNotificationUseCase turns verified payment notifications into
// subscription state. The gateway redelivers until acknowledged, so the
// whole path is idempotent: the transaction id is the dedupe key, and a
// record already linked to a subscription means the work is done.
type HandleNotificationUseCase struct {
	gateway       paymentgateway.Gateway
	records       payment.RecordRepository
	subscriptions subscription.SubscriptionRepository
	applyAction   *subusecases.ApplyActionUseCase
	txm           *db.TransactionManager
	logger        logger.Interface
}

func NewHandleNotificationUseCase(
	gateway paymentgateway.Gateway,
	records payment.RecordRepository,
	subscriptions subscription.SubscriptionRepository,
	applyAction *subusecases.ApplyActionUseCase,
	txm *db.TransactionManager,
	logger logger.Interface,
) *HandleNotificationUseCase {
	return &HandleNotificationUseCase{
		gateway:       gateway,
		records:       records,
		subscriptions: subscriptions,
		applyAction:   applyAction,
		txm:           txm,
		logger:        logger,
	}
}

// Execute verifies, decrypts and reconciles one inbound notification. A nil
// return means the notification may be acknowledged; any error means the
// gateway should be told to retry.
func (uc *HandleNotificationUseCase) Execute(ctx context.Context, headers http.Header, body []byte) error {
	if err := uc.gateway.VerifyNotification(headers, body); err != nil {
		uc.logger.Warnw("notification signature rejected", "error", err)
		return apperrors.NewValidationError("invalid notification signature")
	}

	var envelope notificationEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apperrors.NewValidationError("malformed notification body", err.Error())
	}
	if envelope.EventType != eventTypeTransactionSuccess {
		uc.logger.Infow("ignoring notification event",
			"notification_id", envelope.ID,
			"event_type", envelope.EventType)
		return nil
	}

	result, err := uc.gateway.DecryptResource(envelope.Resource)
	if err != nil {
		uc.logger.Errorw("failed to decrypt notification resource",
			"notification_id", envelope.ID,
			"error", err)
		return apperrors.NewValidationError("failed to decrypt notification resource")
	}

	return db.WithRetry(3, func() error {
		return uc.reconcile(ctx, result)
	})
}

// reconcile makes the raw payment fact durable first, then applies its
// ledger effects. The record commits in its own transaction: whatever fails
// while applying, the record stays behind unlinked and a redelivery resumes
// from it instead of double-crediting. Apply and link stay atomic together.
func (uc *HandleNotificationUseCase) reconcile(ctx context.Context, res *paymentgateway.TransactionResult) error {
	at := biztime.NowUTC()

	status := pvo.PaymentStatusFailed
	if res.TradeState == paymentgateway.TradeStateSuccess {
		status = pvo.PaymentStatusSuccess
	}

	rec, done, err := uc.ensureRecord(ctx, res, status)
	if err != nil || done {
		return err
	}

	if !status.IsSuccess() {
		uc.logger.Warnw("payment not successful, recorded without effect",
			"transaction_id", res.TransactionID,
			"trade_state", res.TradeState)
		return nil
	}

	action, planID, err := parseOutTradeNo(res.OutTradeNo)
	if err != nil {
		return apperrors.NewValidationError("malformed merchant order number", res.OutTradeNo)
	}

	return uc.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		// Runs inside this transaction; the apply either commits with the
		// linkage below or rolls back with it.
		err := uc.applyAction.Execute(txCtx, subusecases.ApplyActionCommand{
			UserID:          res.PayerID,
			Action:          action,
			PlanID:          planID,
			ExpectedPayment: rec.Amount(),
			At:              at,
		})
		if err != nil {
			return err
		}

		sub, err := uc.subscriptions.LatestByPlan(txCtx, res.PayerID, planID)
		if err != nil {
			return fmt.Errorf("failed to load resulting subscription: %w", err)
		}
		if sub == nil {
			return apperrors.NewInvariantError("no subscription found after applying payment",
				fmt.Sprintf("transaction_id=%s plan=%s", res.TransactionID, planID))
		}

		if err := rec.Link(sub.ID()); err != nil {
			return err
		}
		if err := uc.records.LinkSubscription(txCtx, rec); err != nil {
			return fmt.Errorf("failed to link payment record: %w", err)
		}

		uc.logger.Infow("payment reconciled",
			"transaction_id", res.TransactionID,
			"user_id", res.PayerID,
			"action", action.String(),
			"plan_id", planID,
			"subscription_id", sub.ID())
		return nil
	})
}

// ensureRecord loads or creates the payment record for a notification in its
// own committed transaction. done reports that the transaction was already
// fully reconciled and nothing is left to do.
func (uc *HandleNotificationUseCase) ensureRecord(ctx context.Context,
	res *paymentgateway.TransactionResult, status pvo.PaymentStatus) (rec *payment.Record, done bool, err error) {

	err = uc.txm.RunInTransaction(ctx, func(txCtx context.Context) error {
		found, err := uc.records.FindByTransactionID(txCtx, res.TransactionID)
		if err != nil {
			return fmt.Errorf("failed to look up payment record: %w", err)
		}
		if found != nil && found.IsLinked() {
			uc.logger.Infow("payment already reconciled",
				"transaction_id", res.TransactionID,
				"subscription_id", *found.SubscriptionID())
			done = true
			return nil
		}
		if found != nil {
			// A prior delivery stopped between recording and linking. The
			// gateway can settle a transaction it first reported failed; the
			// verified redelivery wins.
			if status.IsSuccess() && !found.Status().IsSuccess() {
				if err := found.MarkSuccess(); err != nil {
					return err
				}
				if err := uc.records.UpdateStatus(txCtx, found); err != nil {
					return fmt.Errorf("failed to update payment record status: %w", err)
				}
			}
			rec = found
			return nil
		}

		created, err := payment.NewRecord(res.PayerID, res.TransactionID,
			pvo.NewMoney(res.AmountTotal, ""), status)
		if err != nil {
			return err
		}
		if err := uc.records.Create(txCtx, created); err != nil {
			return fmt.Errorf("failed to record payment: %w", err)
		}
		rec = created
		return nil
	})
	return rec, done, err
}

// parseOutTradeNo recovers the action and plan from a merchant order number
// built by BuildOutTradeNo.
func parseOutTradeNo(outTradeNo string) (svo.ActionType, string, error) {
	parts := strings.SplitN(outTradeNo, "_", 3)
	if len(parts) != 3 {
		return "", "", fmt.Errorf("expected action_plan_timestamp, got %q", outTradeNo)
	}
	action, err := svo.ParseActionType(parts[0])
	if err != nil {
		return "", "", err
	}
	return action, parts[1], nil
}
