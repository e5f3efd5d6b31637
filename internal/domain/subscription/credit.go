package subscription

import (
	"time"

	vo "gluco/internal/domain/payment/valueobjects"
	"gluco/internal/domain/plan"
	"gluco/internal/shared/biztime"
)

// CreditAt computes the prorated unused value of a subscription at the given
// time: remaining_days / duration_days * price, rounded half-up to the minor
// unit at the final step only.
//
// The reference time is truncated to UTC midnight first, so a quote issued
// at 09:00 and confirmed at 17:00 the same day carries the same credit.
// Returns zero for missing or non-active subscriptions, trial and lifetime
// plans, and anything at or past expiry.
func CreditAt(catalog *plan.Catalog, s *Subscription, at time.Time) vo.Money {
	if s == nil || !s.IsActive() {
		return vo.ZeroMoney()
	}

	p, err := catalog.Get(s.PlanID())
	if err != nil {
		return vo.ZeroMoney()
	}
	if p.IsTrial() || p.IsLifetime() {
		return vo.ZeroMoney()
	}

	day := biztime.TruncateToDayUTC(at)
	if !s.ExpiresAt().After(day) {
		return vo.ZeroMoney()
	}

	remaining := int64(s.ExpiresAt().Sub(day).Hours() / 24)
	duration := int64(p.DurationDays())
	price := p.Price().AmountInFen()

	// floor((2*r*p + d) / (2*d)) rounds r*p/d half-up without intermediate
	// rounding.
	credit := (2*remaining*price + duration) / (2 * duration)
	if credit < 0 {
		credit = 0
	}

	return vo.NewMoney(credit, p.Price().Currency())
}
