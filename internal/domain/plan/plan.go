// Package plan holds the static plan catalog: the purchasable tiers, their
// prices and durations, and the total tier order used for upgrade offers.
package plan

import (
	"fmt"

	vo "gluco/internal/domain/payment/valueobjects"
)

// TrialID is the bootstrap plan granted on first registration. The trial
// never appears in upgrade offers and never accrues credit.
const TrialID = "trial"

// lifetimeSentinelDays approximates "forever" (100 years). Lifetime rows
// carry a concrete far-future expiry instead of a null, so the refresh step
// can treat them like any other row.
const lifetimeSentinelDays = 36500

// Plan is one purchasable tier. Plans are immutable once the catalog is
// built.
type Plan struct {
	id                string
	name              string
	description       string
	durationDays      int
	lifetime          bool
	price             vo.Money
	available         bool
	renewalWindowDays int
}

func NewPlan(id, name, description string, durationDays int, lifetime bool,
	price vo.Money, available bool, renewalWindowDays int) (*Plan, error) {

	if id == "" {
		return nil, fmt.Errorf("plan id is required")
	}
	if name == "" {
		return nil, fmt.Errorf("plan name is required")
	}
	if !lifetime && durationDays <= 0 {
		return nil, fmt.Errorf("plan %s: duration must be positive", id)
	}
	if renewalWindowDays < 0 {
		return nil, fmt.Errorf("plan %s: renewal window cannot be negative", id)
	}

	return &Plan{
		id:                id,
		name:              name,
		description:       description,
		durationDays:      durationDays,
		lifetime:          lifetime,
		price:             price,
		available:         available,
		renewalWindowDays: renewalWindowDays,
	}, nil
}

func (p *Plan) ID() string {
	return p.id
}

func (p *Plan) Name() string {
	return p.name
}

func (p *Plan) Description() string {
	return p.description
}

// DurationDays returns the entitlement length. For lifetime plans this is
// the far-future sentinel.
func (p *Plan) DurationDays() int {
	if p.lifetime {
		return lifetimeSentinelDays
	}
	return p.durationDays
}

func (p *Plan) IsLifetime() bool {
	return p.lifetime
}

func (p *Plan) IsTrial() bool {
	return p.id == TrialID
}

func (p *Plan) Price() vo.Money {
	return p.price
}

func (p *Plan) Available() bool {
	return p.available
}

// RenewalWindowDays is how close to expiry a renewal of this plan is
// offered.
func (p *Plan) RenewalWindowDays() int {
	return p.renewalWindowDays
}
