package subscription

import "context"

// SubscriptionRepository is the persistence port for subscription rows.
// Rows are never deleted, only created and transitioned.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *Subscription) error
	Update(ctx context.Context, sub *Subscription) error

	// ListNonTerminal returns the user's active and future rows, ordered by
	// expiry ascending. Bounded by the ledger invariant (at most two rows).
	ListNonTerminal(ctx context.Context, userID string) ([]*Subscription, error)

	// ListNonTerminalForUpdate is ListNonTerminal with a per-user row lock,
	// serializing concurrent check-then-apply sequences on dialects that
	// support SELECT ... FOR UPDATE.
	ListNonTerminalForUpdate(ctx context.Context, userID string) ([]*Subscription, error)

	// LatestByPlan returns the newest non-terminal row for (user, plan), or
	// nil when none exists. Used to link a payment record after apply: a
	// renewal's row is still future at that point, so active-only would miss
	// it.
	LatestByPlan(ctx context.Context, userID, planID string) (*Subscription, error)

	// HasHistory reports whether the user has any subscription row at all,
	// terminal or not. Gates the one-shot trial bootstrap.
	HasHistory(ctx context.Context, userID string) (bool, error)
}
