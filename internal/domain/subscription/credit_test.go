package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pvo "gluco/internal/domain/payment/valueobjects"
	"gluco/internal/domain/plan"
	vo "gluco/internal/domain/subscription/valueobjects"
)

func testCatalog(t *testing.T) *plan.Catalog {
	t.Helper()

	mk := func(id, name string, days int, lifetime bool, priceFen int64, window int) *plan.Plan {
		p, err := plan.NewPlan(id, name, "", days, lifetime,
			pvo.NewMoney(priceFen, ""), true, window)
		require.NoError(t, err)
		return p
	}

	c, err := plan.NewCatalog([]*plan.Plan{
		mk(plan.TrialID, "Trial", 3, false, 0, 0),
		mk("monthly", "Monthly", 30, false, 990, 3),
		mk("yearly", "Yearly", 365, false, 9900, 30),
		mk("lifetime", "Lifetime", 0, true, 1990, 0),
	})
	require.NoError(t, err)
	return c
}

func activeSub(t *testing.T, planID string, start, expires time.Time) *Subscription {
	t.Helper()
	s, err := ReconstructSubscription(1, "user-1", planID, vo.StatusActive,
		start, expires, start, start)
	require.NoError(t, err)
	return s
}

func TestCreditAt(t *testing.T) {
	catalog := testCatalog(t)
	at := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("prorates remaining value rounded half-up", func(t *testing.T) {
		// 15 of 30 days left on a 9.90 monthly: credit is exactly 4.95
		s := activeSub(t, "monthly", day.AddDate(0, 0, -15), day.AddDate(0, 0, 15))
		credit := CreditAt(catalog, s, at)
		assert.Equal(t, int64(495), credit.AmountInFen())
	})

	t.Run("single terminal rounding", func(t *testing.T) {
		// 7/30 * 990 = 231 exactly; 1/30 * 990 = 33
		s := activeSub(t, "monthly", day.AddDate(0, 0, -23), day.AddDate(0, 0, 7))
		assert.Equal(t, int64(231), CreditAt(catalog, s, at).AmountInFen())

		// 100/365 * 9900 = 2712.33 -> 2712
		s = activeSub(t, "yearly", day.AddDate(0, 0, -265), day.AddDate(0, 0, 100))
		assert.Equal(t, int64(2712), CreditAt(catalog, s, at).AmountInFen())

		// 200/365 * 9900 = 5424.66 -> 5425
		s = activeSub(t, "yearly", day.AddDate(0, 0, -165), day.AddDate(0, 0, 200))
		assert.Equal(t, int64(5425), CreditAt(catalog, s, at).AmountInFen())
	})

	t.Run("stable across time of day", func(t *testing.T) {
		s := activeSub(t, "monthly", day.AddDate(0, 0, -15), day.AddDate(0, 0, 15))
		morning := CreditAt(catalog, s, day.Add(1*time.Hour))
		evening := CreditAt(catalog, s, day.Add(23*time.Hour))
		assert.True(t, morning.Equals(evening))
	})

	t.Run("non-increasing over the plan's life", func(t *testing.T) {
		s := activeSub(t, "yearly", day, day.AddDate(0, 0, 365))
		prev := CreditAt(catalog, s, day)
		for d := 1; d <= 365; d++ {
			cur := CreditAt(catalog, s, day.AddDate(0, 0, d))
			assert.LessOrEqual(t, cur.AmountInFen(), prev.AmountInFen(), "day %d", d)
			prev = cur
		}
		assert.True(t, prev.IsZero())
	})

	t.Run("zero for nil subscription", func(t *testing.T) {
		assert.True(t, CreditAt(catalog, nil, at).IsZero())
	})

	t.Run("zero for trial", func(t *testing.T) {
		s := activeSub(t, plan.TrialID, day.AddDate(0, 0, -1), day.AddDate(0, 0, 2))
		assert.True(t, CreditAt(catalog, s, at).IsZero())
	})

	t.Run("zero for lifetime", func(t *testing.T) {
		s := activeSub(t, "lifetime", day, day.AddDate(0, 0, 36500))
		assert.True(t, CreditAt(catalog, s, at).IsZero())
	})

	t.Run("zero at or past expiry", func(t *testing.T) {
		s := activeSub(t, "monthly", day.AddDate(0, 0, -30), day)
		assert.True(t, CreditAt(catalog, s, at).IsZero())
	})

	t.Run("zero for non-active status", func(t *testing.T) {
		s, err := ReconstructSubscription(2, "user-1", "monthly", vo.StatusFuture,
			day.AddDate(0, 0, 15), day.AddDate(0, 0, 45), day, day)
		require.NoError(t, err)
		assert.True(t, CreditAt(catalog, s, at).IsZero())
	})

	t.Run("credit never exceeds full price", func(t *testing.T) {
		s := activeSub(t, "monthly", day, day.AddDate(0, 0, 30))
		credit := CreditAt(catalog, s, at)
		assert.LessOrEqual(t, credit.AmountInFen(), int64(990))
	})
}
