package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "gluco/internal/domain/payment/valueobjects"
)

func TestNewCatalog(t *testing.T) {
	t.Run("rejects empty catalog", func(t *testing.T) {
		_, err := NewCatalog(nil)
		assert.Error(t, err)
	})

	t.Run("rejects duplicate plan ids", func(t *testing.T) {
		p1 := mustPlan("monthly", "Monthly", "", 30, false, 990, true, 3)
		p2 := mustPlan("monthly", "Monthly again", "", 30, false, 990, true, 3)
		_, err := NewCatalog([]*Plan{p1, p2})
		assert.Error(t, err)
	})
}

func TestCatalog_Get(t *testing.T) {
	c := Default()

	t.Run("returns plan by id", func(t *testing.T) {
		p, err := c.Get("monthly")
		require.NoError(t, err)
		assert.Equal(t, "monthly", p.ID())
		assert.Equal(t, int64(990), p.Price().AmountInFen())
		assert.Equal(t, 30, p.DurationDays())
	})

	t.Run("unknown id returns not found", func(t *testing.T) {
		_, err := c.Get("platinum")
		assert.Error(t, err)
	})
}

func TestCatalog_Rank(t *testing.T) {
	c := Default()

	trialRank, err := c.Rank(TrialID)
	require.NoError(t, err)
	monthlyRank, err := c.Rank("monthly")
	require.NoError(t, err)
	lifetimeRank, err := c.Rank("lifetime")
	require.NoError(t, err)

	assert.Less(t, trialRank, monthlyRank)
	assert.Less(t, monthlyRank, lifetimeRank)
}

func TestCatalog_HigherTiers(t *testing.T) {
	c := Default()

	t.Run("rank -1 yields every available non-trial plan", func(t *testing.T) {
		tiers := c.HigherTiers(-1)
		ids := planIDs(tiers)
		// monthly and yearly ship unavailable in the default catalog
		assert.Equal(t, []string{"lifetime"}, ids)
	})

	t.Run("excludes unavailable plans", func(t *testing.T) {
		monthly := mustPlan("monthly", "Monthly", "", 30, false, 990, true, 3)
		yearly := mustPlan("yearly", "Yearly", "", 365, false, 9900, false, 30)
		lifetime := mustPlan("lifetime", "Lifetime", "", 0, true, 1990, true, 0)
		c, err := NewCatalog([]*Plan{monthly, yearly, lifetime})
		require.NoError(t, err)

		rank, err := c.Rank("monthly")
		require.NoError(t, err)
		assert.Equal(t, []string{"lifetime"}, planIDs(c.HigherTiers(rank)))
	})

	t.Run("top tier has no upgrades", func(t *testing.T) {
		rank, err := c.Rank("lifetime")
		require.NoError(t, err)
		assert.Empty(t, c.HigherTiers(rank))
	})
}

func TestPlan_DurationDays(t *testing.T) {
	t.Run("lifetime reports far-future sentinel", func(t *testing.T) {
		p := mustPlan("lifetime", "Lifetime", "", 0, true, 1990, true, 0)
		assert.Equal(t, 36500, p.DurationDays())
	})

	t.Run("regular plan reports configured duration", func(t *testing.T) {
		p := mustPlan("monthly", "Monthly", "", 30, false, 990, true, 3)
		assert.Equal(t, 30, p.DurationDays())
	})
}

func TestNewPlan_Validation(t *testing.T) {
	_, err := NewPlan("", "Name", "", 30, false, vo.NewMoney(990, ""), true, 3)
	assert.Error(t, err)

	_, err = NewPlan("monthly", "", "", 30, false, vo.NewMoney(990, ""), true, 3)
	assert.Error(t, err)

	_, err = NewPlan("monthly", "Monthly", "", 0, false, vo.NewMoney(990, ""), true, 3)
	assert.Error(t, err)

	// zero duration is fine for lifetime plans
	_, err = NewPlan("lifetime", "Lifetime", "", 0, true, vo.NewMoney(1990, ""), true, 0)
	assert.NoError(t, err)
}

func planIDs(plans []*Plan) []string {
	out := make([]string, 0, len(plans))
	for _, p := range plans {
		out = append(out, p.ID())
	}
	return out
}
