package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	pvo "gluco/internal/domain/payment/valueobjects"
	"gluco/internal/domain/plan"
	"gluco/internal/domain/subscription"
	svo "gluco/internal/domain/subscription/valueobjects"
	"gluco/internal/infrastructure/persistence/models"
	"gluco/internal/infrastructure/repository"
	"gluco/internal/shared/db"
	"gluco/internal/shared/logger"
)

type testEnv struct {
	repo    subscription.SubscriptionRepository
	catalog *plan.Catalog
	txm     *db.TransactionManager
	log     logger.Interface
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// a fresh pool connection would see a fresh in-memory database
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(&models.SubscriptionModel{}, &models.PaymentRecordModel{}))

	log := logger.NewLogger()
	return &testEnv{
		repo:    repository.NewSubscriptionRepository(gdb, log),
		catalog: fullCatalog(t),
		txm:     db.NewTransactionManager(gdb),
		log:     log,
	}
}

// fullCatalog mirrors the default tier order with every paid plan available.
func fullCatalog(t *testing.T) *plan.Catalog {
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

func seedSubscription(t *testing.T, env *testEnv, userID, planID string,
	status svo.SubscriptionStatus, start, expires time.Time) *subscription.Subscription {
	t.Helper()

	s, err := subscription.NewSubscription(userID, planID, status, start, expires)
	require.NoError(t, err)
	require.NoError(t, env.repo.Create(context.Background(), s))
	return s
}
