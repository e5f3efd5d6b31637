// Package payment holds the payment record aggregate: the durable fact that
// the gateway reported a transaction, keyed by the gateway's transaction id.
package payment

import (
	"fmt"
	"time"

	vo "gluco/internal/domain/payment/valueobjects"
)

// Record is one gateway transaction. The transaction id is globally unique
// and serves as the idempotency key for webhook redelivery. A record whose
// subscription linkage is set is terminal: reprocessing the same transaction
// must be a no-op.
type Record struct {
	id             uint
	userID         string
	subscriptionID *uint
	transactionID  string
	amount         vo.Money
	status         vo.PaymentStatus
	createdAt      time.Time
}

func NewRecord(userID, transactionID string, amount vo.Money, status vo.PaymentStatus) (*Record, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if transactionID == "" {
		return nil, fmt.Errorf("transaction ID is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid payment status: %s", status)
	}

	return &Record{
		userID:        userID,
		transactionID: transactionID,
		amount:        amount,
		status:        status,
		createdAt:     time.Now().UTC(),
	}, nil
}

// ReconstructRecord rebuilds a payment record from persistence.
func ReconstructRecord(id uint, userID string, subscriptionID *uint,
	transactionID string, amount vo.Money, status vo.PaymentStatus,
	createdAt time.Time) (*Record, error) {

	if id == 0 {
		return nil, fmt.Errorf("payment record ID cannot be zero")
	}
	if transactionID == "" {
		return nil, fmt.Errorf("transaction ID is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid payment status: %s", status)
	}

	return &Record{
		id:             id,
		userID:         userID,
		subscriptionID: subscriptionID,
		transactionID:  transactionID,
		amount:         amount,
		status:         status,
		createdAt:      createdAt,
	}, nil
}

func (r *Record) ID() uint {
	return r.id
}

func (r *Record) UserID() string {
	return r.userID
}

func (r *Record) SubscriptionID() *uint {
	return r.subscriptionID
}

func (r *Record) TransactionID() string {
	return r.transactionID
}

func (r *Record) Amount() vo.Money {
	return r.amount
}

func (r *Record) Status() vo.PaymentStatus {
	return r.status
}

func (r *Record) CreatedAt() time.Time {
	return r.createdAt
}

// SetID writes back the auto-generated ID after insert.
func (r *Record) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("payment record ID already set")
	}
	if id == 0 {
		return fmt.Errorf("payment record ID cannot be zero")
	}
	r.id = id
	return nil
}

// IsLinked reports whether the record has been tied to a subscription,
// which makes it terminal.
func (r *Record) IsLinked() bool {
	return r.subscriptionID != nil
}

// MarkSuccess upgrades a failed record when the gateway redelivers the same
// transaction as settled. Linked records are immutable.
func (r *Record) MarkSuccess() error {
	if r.subscriptionID != nil {
		return fmt.Errorf("cannot change status of payment record linked to subscription %d", *r.subscriptionID)
	}
	r.status = vo.PaymentStatusSuccess
	return nil
}

// Link ties the record to the subscription its payment produced. Linking
// twice is a bug; redelivery must be short-circuited before reaching here.
func (r *Record) Link(subscriptionID uint) error {
	if r.subscriptionID != nil {
		return fmt.Errorf("payment record already linked to subscription %d", *r.subscriptionID)
	}
	if subscriptionID == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	r.subscriptionID = &subscriptionID
	return nil
}
