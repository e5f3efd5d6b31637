package plan

import (
	"fmt"

	vo "gluco/internal/domain/payment/valueobjects"
	"gluco/internal/shared/errors"
)

// Catalog is the ordered, read-only plan registry. Tier rank is the position
// in the ordered list, never a map iteration order. The catalog is injected
// configuration: tests build their own instead of mutating shared state.
type Catalog struct {
	plans []*Plan
	index map[string]int
}

func NewCatalog(plans []*Plan) (*Catalog, error) {
	if len(plans) == 0 {
		return nil, fmt.Errorf("catalog requires at least one plan")
	}

	index := make(map[string]int, len(plans))
	for i, p := range plans {
		if _, dup := index[p.ID()]; dup {
			return nil, fmt.Errorf("duplicate plan id: %s", p.ID())
		}
		index[p.ID()] = i
	}

	return &Catalog{plans: plans, index: index}, nil
}

// Get returns the plan with the given id.
func (c *Catalog) Get(id string) (*Plan, error) {
	i, ok := c.index[id]
	if !ok {
		return nil, errors.NewNotFoundError("plan not found", id)
	}
	return c.plans[i], nil
}

// Rank returns the tier position of the given plan id.
func (c *Catalog) Rank(id string) (int, error) {
	i, ok := c.index[id]
	if !ok {
		return 0, errors.NewNotFoundError("plan not found", id)
	}
	return i, nil
}

// HigherTiers returns available plans strictly above the given rank,
// excluding the trial. Rank -1 yields every available non-trial plan.
func (c *Catalog) HigherTiers(rank int) []*Plan {
	var out []*Plan
	for i, p := range c.plans {
		if i <= rank {
			continue
		}
		if p.IsTrial() || !p.Available() {
			continue
		}
		out = append(out, p)
	}
	return out
}

// All returns the plans in tier order.
func (c *Catalog) All() []*Plan {
	out := make([]*Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

func mustPlan(id, name, description string, durationDays int, lifetime bool,
	priceFen int64, available bool, renewalWindowDays int) *Plan {

	p, err := NewPlan(id, name, description, durationDays, lifetime,
		vo.NewMoney(priceFen, "CNY"), available, renewalWindowDays)
	if err != nil {
		panic(err)
	}
	return p
}

// Default returns the built-in catalog: 3-day free trial, 30-day monthly at
// 9.90, 365-day yearly at 99, and a lifetime plan at 19.90. Monthly and
// yearly are shipped unavailable; availability is overridden per deployment.
func Default() *Catalog {
	c, err := NewCatalog([]*Plan{
		mustPlan(TrialID, "免费试用", "免费试用3天", 3, false, 0, true, 0),
		mustPlan("monthly", "30天包月", "订阅后可使用30天", 30, false, 990, false, 3),
		mustPlan("yearly", "365天包年", "订阅后可使用365天", 365, false, 9900, false, 30),
		mustPlan("lifetime", "永久使用", "可永久使用，无限时间", 0, true, 1990, true, 0),
	})
	if err != nil {
		panic(err)
	}
	return c
}
