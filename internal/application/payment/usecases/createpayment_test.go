package usecases

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	svo "gluco/internal/domain/subscription/valueobjects"
	apperrors "gluco/internal/shared/errors"
)

func TestCreatePaymentUseCase(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	at := day.Add(12 * time.Hour)

	t.Run("charges the server-computed prorated amount", func(t *testing.T) {
		env := setupTest(t)
		uc := NewCreatePaymentUseCase(env.subRepo, env.catalog, env.gateway, env.txm, env.log)

		// monthly with 15 of 30 days left: yearly upgrade costs 94.05
		seedSubscription(t, env, "user-1", "monthly", svo.StatusActive,
			day.AddDate(0, 0, -15), day.AddDate(0, 0, 15))

		params, err := uc.Execute(context.Background(), CreatePaymentCommand{
			UserID: "user-1",
			Action: svo.ActionUpgrade,
			PlanID: "yearly",
			At:     at,
		})
		require.NoError(t, err)
		assert.Equal(t, "prepay_id=test-prepay", params.Package)

		require.NotNil(t, env.gateway.prepayOrder)
		assert.Equal(t, int64(9405), env.gateway.prepayOrder.AmountTotal)
		assert.Equal(t, "user-1", env.gateway.prepayOrder.PayerID)
		assert.Equal(t, "Yearly", env.gateway.prepayOrder.Description)
		assert.True(t, strings.HasPrefix(env.gateway.prepayOrder.OutTradeNo, "upgrade_yearly_"))
	})

	t.Run("unavailable action never reaches the gateway", func(t *testing.T) {
		env := setupTest(t)
		uc := NewCreatePaymentUseCase(env.subRepo, env.catalog, env.gateway, env.txm, env.log)

		seedSubscription(t, env, "user-1", "yearly", svo.StatusActive,
			day.AddDate(0, 0, -100), day.AddDate(0, 0, 265))

		_, err := uc.Execute(context.Background(), CreatePaymentCommand{
			UserID: "user-1",
			Action: svo.ActionRenewal,
			PlanID: "yearly",
			At:     at,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidationError(err))
		assert.Nil(t, env.gateway.prepayOrder)
	})

	t.Run("gateway failure surfaces as gateway error", func(t *testing.T) {
		env := setupTest(t)
		env.gateway.prepayErr = assert.AnError
		uc := NewCreatePaymentUseCase(env.subRepo, env.catalog, env.gateway, env.txm, env.log)

		_, err := uc.Execute(context.Background(), CreatePaymentCommand{
			UserID: "user-1",
			Action: svo.ActionUpgrade,
			PlanID: "lifetime",
			At:     at,
		})
		require.Error(t, err)
		appErr := apperrors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrorTypeGateway, appErr.Type)
	})
}

func TestBuildOutTradeNo(t *testing.T) {
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	no := BuildOutTradeNo(svo.ActionRenewal, "monthly", at)

	action, planID, err := parseOutTradeNo(no)
	require.NoError(t, err)
	assert.Equal(t, svo.ActionRenewal, action)
	assert.Equal(t, "monthly", planID)
}

func TestParseOutTradeNo(t *testing.T) {
	t.Run("rejects malformed order numbers", func(t *testing.T) {
		_, _, err := parseOutTradeNo("upgrade-yearly")
		assert.Error(t, err)

		_, _, err = parseOutTradeNo("upgrade_yearly")
		assert.Error(t, err)
	})

	t.Run("rejects unknown actions", func(t *testing.T) {
		_, _, err := parseOutTradeNo("downgrade_monthly_1700000000")
		assert.Error(t, err)
	})
}
