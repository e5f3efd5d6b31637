package subscription

import (
	"time"

	pvo "gluco/internal/domain/payment/valueobjects"
	"gluco/internal/domain/plan"
	vo "gluco/internal/domain/subscription/valueobjects"
	"gluco/internal/shared/biztime"
)

// Offer is one legal next action with its quoted payment. The payment is
// what the client must authorize; the credit is echoed for display.
type Offer struct {
	Action       vo.ActionType
	PlanID       string
	Name         string
	Price        pvo.Money
	DurationDays int
	Description  []string
	Credit       pvo.Money
	Payment      pvo.Money
}

// AvailableActions computes the offer set for a user's current subscription.
// current may be nil (no subscription); future is the queued renewal row if
// one exists. While a future row is queued no further action is offered.
//
// Renewal of the current plan is offered only inside the plan's renewal
// window and always at full price. Upgrades are offered for every available
// higher tier, at full price minus the current subscription's credit.
func AvailableActions(catalog *plan.Catalog, current, future *Subscription, at time.Time) ([]Offer, error) {
	if future != nil {
		return nil, nil
	}

	credit := CreditAt(catalog, current, at)
	day := biztime.TruncateToDayUTC(at)

	var offers []Offer
	rank := -1

	if current != nil {
		currentPlan, err := catalog.Get(current.PlanID())
		if err != nil {
			return nil, err
		}
		rank, _ = catalog.Rank(current.PlanID())

		if current.IsActive() && !currentPlan.IsTrial() && !currentPlan.IsLifetime() {
			daysUntilExpiry := int(current.ExpiresAt().Sub(day).Hours() / 24)
			if daysUntilExpiry <= currentPlan.RenewalWindowDays() {
				offers = append(offers, Offer{
					Action:       vo.ActionRenewal,
					PlanID:       currentPlan.ID(),
					Name:         currentPlan.Name(),
					Price:        currentPlan.Price(),
					DurationDays: currentPlan.DurationDays(),
					Description:  []string{currentPlan.Description()},
					Credit:       pvo.ZeroMoney(),
					Payment:      currentPlan.Price(),
				})
			}
		}
	}

	for _, p := range catalog.HigherTiers(rank) {
		offers = append(offers, Offer{
			Action:       vo.ActionUpgrade,
			PlanID:       p.ID(),
			Name:         p.Name(),
			Price:        p.Price(),
			DurationDays: p.DurationDays(),
			Description:  []string{p.Description()},
			Credit:       credit,
			Payment:      p.Price().Sub(credit),
		})
	}

	return offers, nil
}

// MatchOffer finds the offer for (action, planID), or nil.
func MatchOffer(offers []Offer, action vo.ActionType, planID string) *Offer {
	for i := range offers {
		if offers[i].Action == action && offers[i].PlanID == planID {
			return &offers[i]
		}
	}
	return nil
}
