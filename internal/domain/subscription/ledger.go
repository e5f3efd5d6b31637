package subscription

import (
	"context"
	"fmt"
	"time"

	apperrors "gluco/internal/shared/errors"
)

// Ledger is one user's non-terminal rows after lazy refresh: at most one
// active and at most one future subscription.
type Ledger struct {
	Active *Subscription
	Future *Subscription
}

// RefreshLedger applies the lazy expiry/promotion step to the given rows at
// the given instant: active rows past expiry become expired, future rows
// whose start has arrived become active. There is no background scheduler;
// every read and write path runs this first, inside the same transaction as
// whatever follows.
//
// Returns the resulting ledger, or an invariant error when the row set is
// inconsistent (more than one active, more than one future, or more than two
// non-terminal rows). That indicates a ledger bug, not bad input.
func RefreshLedger(ctx context.Context, repo SubscriptionRepository,
	rows []*Subscription, at time.Time) (Ledger, error) {

	var ledger Ledger

	if len(rows) > 2 {
		return ledger, apperrors.NewInvariantError("too many non-terminal subscriptions",
			fmt.Sprintf("user has %d non-terminal rows", len(rows)))
	}

	for _, row := range rows {
		switch {
		case row.ShouldExpire(at):
			if err := row.MarkExpired(); err != nil {
				return ledger, err
			}
			if err := repo.Update(ctx, row); err != nil {
				return ledger, fmt.Errorf("failed to expire subscription %d: %w", row.ID(), err)
			}
		case row.ShouldActivate(at):
			if err := row.Promote(); err != nil {
				return ledger, err
			}
			if err := repo.Update(ctx, row); err != nil {
				return ledger, fmt.Errorf("failed to promote subscription %d: %w", row.ID(), err)
			}
		}
	}

	for _, row := range rows {
		switch {
		case row.IsActive():
			if ledger.Active != nil {
				return ledger, apperrors.NewInvariantError("multiple active subscriptions",
					fmt.Sprintf("rows %d and %d", ledger.Active.ID(), row.ID()))
			}
			ledger.Active = row
		case row.IsFuture():
			if ledger.Future != nil {
				return ledger, apperrors.NewInvariantError("multiple future subscriptions",
					fmt.Sprintf("rows %d and %d", ledger.Future.ID(), row.ID()))
			}
			ledger.Future = row
		}
	}

	return ledger, nil
}
