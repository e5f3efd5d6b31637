package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "gluco/internal/domain/subscription/valueobjects"
	apperrors "gluco/internal/shared/errors"
)

// recordingRepo captures Update calls; the other methods are unused by
// RefreshLedger.
type recordingRepo struct {
	SubscriptionRepository
	updated []*Subscription
}

func (r *recordingRepo) Update(_ context.Context, s *Subscription) error {
	r.updated = append(r.updated, s)
	return nil
}

func TestRefreshLedger(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	sub := func(id uint, status vo.SubscriptionStatus, start, expires time.Time) *Subscription {
		s, err := ReconstructSubscription(id, "user-1", "monthly", status,
			start, expires, start, start)
		require.NoError(t, err)
		return s
	}

	t.Run("expires a run-out active row", func(t *testing.T) {
		repo := &recordingRepo{}
		rows := []*Subscription{sub(1, vo.StatusActive, day.AddDate(0, 0, -31), day.AddDate(0, 0, -1))}

		ledger, err := RefreshLedger(ctx, repo, rows, day)
		require.NoError(t, err)
		assert.Nil(t, ledger.Active)
		assert.Nil(t, ledger.Future)
		require.Len(t, repo.updated, 1)
		assert.Equal(t, vo.StatusExpired, repo.updated[0].Status())
	})

	t.Run("expiry and promotion cascade in one pass", func(t *testing.T) {
		repo := &recordingRepo{}
		active := sub(1, vo.StatusActive, day.AddDate(0, 0, -31), day.AddDate(0, 0, -1))
		future := sub(2, vo.StatusFuture, day.AddDate(0, 0, -1), day.AddDate(0, 0, 29))

		ledger, err := RefreshLedger(ctx, repo, []*Subscription{active, future}, day)
		require.NoError(t, err)
		require.NotNil(t, ledger.Active)
		assert.Equal(t, uint(2), ledger.Active.ID())
		assert.Nil(t, ledger.Future)
		assert.Len(t, repo.updated, 2)
	})

	t.Run("expires a future row whose whole window lapsed", func(t *testing.T) {
		// nothing refreshed this user while the queued renewal ran its
		// course; the stale row must not keep suppressing offers
		repo := &recordingRepo{}
		active := sub(1, vo.StatusActive, day.AddDate(0, 0, -90), day.AddDate(0, 0, -60))
		future := sub(2, vo.StatusFuture, day.AddDate(0, 0, -60), day.AddDate(0, 0, -30))

		ledger, err := RefreshLedger(ctx, repo, []*Subscription{active, future}, day)
		require.NoError(t, err)
		assert.Nil(t, ledger.Active)
		assert.Nil(t, ledger.Future)
		require.Len(t, repo.updated, 2)
		assert.Equal(t, vo.StatusExpired, repo.updated[0].Status())
		assert.Equal(t, vo.StatusExpired, repo.updated[1].Status())
	})

	t.Run("untouched rows stay put", func(t *testing.T) {
		repo := &recordingRepo{}
		active := sub(1, vo.StatusActive, day.AddDate(0, 0, -10), day.AddDate(0, 0, 20))
		future := sub(2, vo.StatusFuture, day.AddDate(0, 0, 20), day.AddDate(0, 0, 50))

		ledger, err := RefreshLedger(ctx, repo, []*Subscription{active, future}, day)
		require.NoError(t, err)
		assert.Equal(t, uint(1), ledger.Active.ID())
		assert.Equal(t, uint(2), ledger.Future.ID())
		assert.Empty(t, repo.updated)
	})

	t.Run("more than two rows is an invariant violation", func(t *testing.T) {
		repo := &recordingRepo{}
		rows := []*Subscription{
			sub(1, vo.StatusActive, day, day.AddDate(0, 0, 30)),
			sub(2, vo.StatusFuture, day.AddDate(0, 0, 30), day.AddDate(0, 0, 60)),
			sub(3, vo.StatusFuture, day.AddDate(0, 0, 60), day.AddDate(0, 0, 90)),
		}

		_, err := RefreshLedger(ctx, repo, rows, day)
		require.Error(t, err)
		assert.True(t, apperrors.IsInvariantError(err))
	})

	t.Run("two active rows is an invariant violation", func(t *testing.T) {
		repo := &recordingRepo{}
		rows := []*Subscription{
			sub(1, vo.StatusActive, day, day.AddDate(0, 0, 30)),
			sub(2, vo.StatusActive, day, day.AddDate(0, 0, 60)),
		}

		_, err := RefreshLedger(ctx, repo, rows, day)
		require.Error(t, err)
		assert.True(t, apperrors.IsInvariantError(err))
	})
}
