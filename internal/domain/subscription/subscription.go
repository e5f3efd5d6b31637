// Package subscription holds the subscription aggregate and the pure
// calculations on top of it: unused-time credit and the set of legal next
// actions. State transitions are expressed as aggregate methods; the
// application layer decides when to apply them.
package subscription

import (
	"fmt"
	"time"

	vo "gluco/internal/domain/subscription/valueobjects"
)

// Subscription is a time-boxed grant of a plan to a user.
//
// Invariants enforced by the ledger use case, not here: at most one active
// and one future row per user, and a future row always starts exactly when
// the active row expires.
type Subscription struct {
	id        uint
	userID    string
	planID    string
	status    vo.SubscriptionStatus
	startDate time.Time
	expiresAt time.Time
	createdAt time.Time
	updatedAt time.Time
}

// NewSubscription creates a subscription row to be persisted.
func NewSubscription(userID, planID string, status vo.SubscriptionStatus,
	startDate, expiresAt time.Time) (*Subscription, error) {

	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if planID == "" {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}
	if expiresAt.Before(startDate) {
		return nil, fmt.Errorf("expiry must not precede start date")
	}

	now := time.Now().UTC()
	return &Subscription{
		userID:    userID,
		planID:    planID,
		status:    status,
		startDate: startDate,
		expiresAt: expiresAt,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructSubscription rebuilds a subscription from persistence.
func ReconstructSubscription(id uint, userID, planID string,
	status vo.SubscriptionStatus, startDate, expiresAt time.Time,
	createdAt, updatedAt time.Time) (*Subscription, error) {

	if id == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if planID == "" {
		return nil, fmt.Errorf("plan ID is required")
	}
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}

	return &Subscription{
		id:        id,
		userID:    userID,
		planID:    planID,
		status:    status,
		startDate: startDate,
		expiresAt: expiresAt,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (s *Subscription) ID() uint {
	return s.id
}

func (s *Subscription) UserID() string {
	return s.userID
}

func (s *Subscription) PlanID() string {
	return s.planID
}

func (s *Subscription) Status() vo.SubscriptionStatus {
	return s.status
}

func (s *Subscription) StartDate() time.Time {
	return s.startDate
}

func (s *Subscription) ExpiresAt() time.Time {
	return s.expiresAt
}

func (s *Subscription) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Subscription) UpdatedAt() time.Time {
	return s.updatedAt
}

// SetID writes back the auto-generated ID after insert.
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

func (s *Subscription) IsActive() bool {
	return s.status == vo.StatusActive
}

func (s *Subscription) IsFuture() bool {
	return s.status == vo.StatusFuture
}

// ShouldExpire reports whether a non-terminal row has run out at the given
// time. This covers future rows too: one whose whole window passed without a
// refresh would otherwise stay future forever and suppress all offers.
func (s *Subscription) ShouldExpire(at time.Time) bool {
	return (s.status == vo.StatusActive || s.status == vo.StatusFuture) &&
		!s.expiresAt.After(at)
}

// ShouldActivate reports whether a future row has reached its start and is
// still within its own window at the given time.
func (s *Subscription) ShouldActivate(at time.Time) bool {
	return s.status == vo.StatusFuture &&
		!s.startDate.After(at) && s.expiresAt.After(at)
}

// MarkExpired flips a non-terminal row to expired during lazy refresh. The
// expiry date is left untouched: it documents when the entitlement ran out.
func (s *Subscription) MarkExpired() error {
	if s.status != vo.StatusActive && s.status != vo.StatusFuture {
		return fmt.Errorf("cannot expire subscription with status %s", s.status)
	}
	s.status = vo.StatusExpired
	s.updatedAt = time.Now().UTC()
	return nil
}

// Promote flips a future row to active during lazy refresh.
func (s *Subscription) Promote() error {
	if s.status != vo.StatusFuture {
		return fmt.Errorf("cannot promote subscription with status %s", s.status)
	}
	s.status = vo.StatusActive
	s.updatedAt = time.Now().UTC()
	return nil
}

// Supersede cuts an active row short at the given instant when an upgrade
// replaces it. Unlike MarkExpired, the expiry date is rewritten to the cut.
func (s *Subscription) Supersede(at time.Time) error {
	if s.status != vo.StatusActive {
		return fmt.Errorf("cannot supersede subscription with status %s", s.status)
	}
	s.status = vo.StatusExpired
	s.expiresAt = at
	s.updatedAt = time.Now().UTC()
	return nil
}
