package subscription

import "errors"

var (
	ErrSubscriptionNotFound      = errors.New("subscription not found")
	ErrConflictingFuture         = errors.New("user already has a future subscription")
	ErrInvalidAction             = errors.New("action is not available for this subscription")
	ErrPaymentMismatch           = errors.New("payment amount does not match the quoted offer")
	ErrTooManyActiveSubscription = errors.New("too many non-terminal subscriptions for user")
)
