package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "gluco/internal/domain/subscription/valueobjects"
)

func TestNewSubscription(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid subscription", func(t *testing.T) {
		s, err := NewSubscription("user-1", "monthly", vo.StatusActive,
			start, start.AddDate(0, 0, 30))
		require.NoError(t, err)
		assert.True(t, s.IsActive())
		assert.Zero(t, s.ID())
	})

	t.Run("rejects expiry before start", func(t *testing.T) {
		_, err := NewSubscription("user-1", "monthly", vo.StatusActive,
			start, start.AddDate(0, 0, -1))
		assert.Error(t, err)
	})

	t.Run("rejects non-persistable status", func(t *testing.T) {
		_, err := NewSubscription("user-1", "monthly", vo.StatusInactive,
			start, start.AddDate(0, 0, 30))
		assert.Error(t, err)
	})
}

func TestSubscription_Transitions(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	expires := start.AddDate(0, 0, 30)

	t.Run("ShouldExpire at exact expiry instant", func(t *testing.T) {
		s := activeSub(t, "monthly", start, expires)
		assert.False(t, s.ShouldExpire(expires.Add(-time.Second)))
		assert.True(t, s.ShouldExpire(expires))
		assert.True(t, s.ShouldExpire(expires.Add(time.Hour)))
	})

	t.Run("ShouldExpire covers a lapsed future row", func(t *testing.T) {
		s, err := ReconstructSubscription(1, "user-1", "monthly", vo.StatusFuture,
			start, expires, start, start)
		require.NoError(t, err)

		assert.False(t, s.ShouldExpire(expires.Add(-time.Second)))
		assert.True(t, s.ShouldExpire(expires))
	})

	t.Run("ShouldActivate only between start and expiry", func(t *testing.T) {
		s, err := ReconstructSubscription(1, "user-1", "monthly", vo.StatusFuture,
			start, expires, start, start)
		require.NoError(t, err)

		assert.False(t, s.ShouldActivate(start.Add(-time.Second)))
		assert.True(t, s.ShouldActivate(start))
		assert.True(t, s.ShouldActivate(expires.Add(-time.Second)))
		// past its own window the row expires instead of activating
		assert.False(t, s.ShouldActivate(expires))
	})

	t.Run("MarkExpired keeps the expiry date", func(t *testing.T) {
		s := activeSub(t, "monthly", start, expires)
		require.NoError(t, s.MarkExpired())
		assert.Equal(t, vo.StatusExpired, s.Status())
		assert.Equal(t, expires, s.ExpiresAt())

		assert.Error(t, s.MarkExpired())
	})

	t.Run("Supersede rewrites the expiry date", func(t *testing.T) {
		s := activeSub(t, "monthly", start, expires)
		cut := start.AddDate(0, 0, 10)
		require.NoError(t, s.Supersede(cut))
		assert.Equal(t, vo.StatusExpired, s.Status())
		assert.Equal(t, cut, s.ExpiresAt())
	})

	t.Run("Promote flips future to active", func(t *testing.T) {
		s, err := ReconstructSubscription(1, "user-1", "monthly", vo.StatusFuture,
			start, expires, start, start)
		require.NoError(t, err)
		require.NoError(t, s.Promote())
		assert.True(t, s.IsActive())

		assert.Error(t, s.Promote())
	})
}
