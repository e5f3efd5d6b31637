package payment

import "context"

// RecordRepository is the persistence port for payment records.
type RecordRepository interface {
	Create(ctx context.Context, rec *Record) error

	// LinkSubscription persists the subscription linkage, after which the
	// record is immutable.
	LinkSubscription(ctx context.Context, rec *Record) error

	// UpdateStatus persists a status change on an unlinked record.
	UpdateStatus(ctx context.Context, rec *Record) error

	// FindByTransactionID returns the record for the gateway transaction id,
	// or nil when none exists. This is the idempotency lookup and must stay
	// a single indexed query.
	FindByTransactionID(ctx context.Context, transactionID string) (*Record, error)
}
