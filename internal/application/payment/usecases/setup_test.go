package usecases

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gluco/internal/application/payment/paymentgateway"
	subUsecases "gluco/internal/application/subscription/usecases"
	"gluco/internal/domain/payment"
	pvo "gluco/internal/domain/payment/valueobjects"
	"gluco/internal/domain/plan"
	"gluco/internal/domain/subscription"
	svo "gluco/internal/domain/subscription/valueobjects"
	"gluco/internal/infrastructure/persistence/models"
	"gluco/internal/infrastructure/repository"
	"gluco/internal/shared/db"
	"gluco/internal/shared/logger"
)

// fakeGateway scripts the gateway port for tests. Prepay records the order it
// was asked for; DecryptResource hands back whatever the test staged.
type fakeGateway struct {
	prepayOrder *paymentgateway.PrepayOrder
	prepayErr   error
	verifyErr   error
	result      *paymentgateway.TransactionResult
	decryptErr  error
}

func (g *fakeGateway) Prepay(_ context.Context, order paymentgateway.PrepayOrder) (*paymentgateway.PrepayParams, error) {
	if g.prepayErr != nil {
		return nil, g.prepayErr
	}
	g.prepayOrder = &order
	return &paymentgateway.PrepayParams{
		AppID:     "wx-test-app",
		TimeStamp: "1700000000",
		NonceStr:  "nonce",
		Package:   "prepay_id=test-prepay",
		SignType:  "RSA",
		PaySign:   "signature",
	}, nil
}

func (g *fakeGateway) VerifyNotification(_ http.Header, _ []byte) error {
	return g.verifyErr
}

func (g *fakeGateway) DecryptResource(_ paymentgateway.EncryptedResource) (*paymentgateway.TransactionResult, error) {
	if g.decryptErr != nil {
		return nil, g.decryptErr
	}
	return g.result, nil
}

type testEnv struct {
	subRepo     subscription.SubscriptionRepository
	paymentRepo payment.RecordRepository
	catalog     *plan.Catalog
	txm         *db.TransactionManager
	gateway     *fakeGateway
	applyAction *subUsecases.ApplyActionUseCase
	log         logger.Interface
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(&models.SubscriptionModel{}, &models.PaymentRecordModel{}))

	mk := func(id, name string, days int, lifetime bool, priceFen int64, window int) *plan.Plan {
		p, err := plan.NewPlan(id, name, "", days, lifetime,
			pvo.NewMoney(priceFen, ""), true, window)
		require.NoError(t, err)
		return p
	}
	catalog, err := plan.NewCatalog([]*plan.Plan{
		mk(plan.TrialID, "Trial", 3, false, 0, 0),
		mk("monthly", "Monthly", 30, false, 990, 3),
		mk("yearly", "Yearly", 365, false, 9900, 30),
		mk("lifetime", "Lifetime", 0, true, 1990, 0),
	})
	require.NoError(t, err)

	log := logger.NewLogger()
	txm := db.NewTransactionManager(gdb)
	subRepo := repository.NewSubscriptionRepository(gdb, log)

	return &testEnv{
		subRepo:     subRepo,
		paymentRepo: repository.NewPaymentRecordRepository(gdb, log),
		catalog:     catalog,
		txm:         txm,
		gateway:     &fakeGateway{},
		applyAction: subUsecases.NewApplyActionUseCase(subRepo, catalog, txm, log),
		log:         log,
	}
}

func seedSubscription(t *testing.T, env *testEnv, userID, planID string,
	status svo.SubscriptionStatus, start, expires time.Time) *subscription.Subscription {
	t.Helper()

	s, err := subscription.NewSubscription(userID, planID, status, start, expires)
	require.NoError(t, err)
	require.NoError(t, env.subRepo.Create(context.Background(), s))
	return s
}
