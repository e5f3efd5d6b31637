package valueobjects

// SubscriptionStatus is the stored state of a subscription row. Inactive is
// derived (absence of an active row) and never persisted.
type SubscriptionStatus string

const (
	StatusActive  SubscriptionStatus = "active"
	StatusFuture  SubscriptionStatus = "future"
	StatusExpired SubscriptionStatus = "expired"
	// StatusInactive is reported for users with no active subscription.
	StatusInactive SubscriptionStatus = "inactive"
)

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusActive:  true,
	StatusFuture:  true,
	StatusExpired: true,
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status admits no further transitions.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == StatusExpired
}
