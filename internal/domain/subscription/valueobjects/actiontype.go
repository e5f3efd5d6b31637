package valueobjects

import "fmt"

// ActionType is a legal next step for a user's subscription: renewing the
// current plan or upgrading to a higher tier.
type ActionType string

const (
	ActionRenewal ActionType = "renewal"
	ActionUpgrade ActionType = "upgrade"
)

func (a ActionType) String() string {
	return string(a)
}

func (a ActionType) IsValid() bool {
	return a == ActionRenewal || a == ActionUpgrade
}

// ParseActionType validates a raw action string.
func ParseActionType(raw string) (ActionType, error) {
	a := ActionType(raw)
	if !a.IsValid() {
		return "", fmt.Errorf("invalid action type: %s", raw)
	}
	return a, nil
}
