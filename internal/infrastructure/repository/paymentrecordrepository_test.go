package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gluco/internal/domain/payment"
	pvo "gluco/internal/domain/payment/valueobjects"
	"gluco/internal/shared/logger"
)

func newRecord(t *testing.T, transactionID string, amountFen int64) *payment.Record {
	t.Helper()

	rec, err := payment.NewRecord("user-1", transactionID,
		pvo.NewMoney(amountFen, ""), pvo.PaymentStatusSuccess)
	require.NoError(t, err)
	return rec
}

func TestPaymentRecordRepository_CreateAndFind(t *testing.T) {
	repo := NewPaymentRecordRepository(setupTestDB(t), logger.NewLogger())
	ctx := context.Background()

	rec := newRecord(t, "wx-tx-001", 990)
	require.NoError(t, repo.Create(ctx, rec))
	assert.NotZero(t, rec.ID())

	got, err := repo.FindByTransactionID(ctx, "wx-tx-001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ID(), got.ID())
	assert.Equal(t, "user-1", got.UserID())
	assert.True(t, got.Amount().Equals(pvo.NewMoney(990, "CNY")))
	assert.False(t, got.IsLinked())
}

func TestPaymentRecordRepository_FindUnknownTransaction(t *testing.T) {
	repo := NewPaymentRecordRepository(setupTestDB(t), logger.NewLogger())

	got, err := repo.FindByTransactionID(context.Background(), "wx-tx-missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPaymentRecordRepository_TransactionIDIsUnique(t *testing.T) {
	repo := NewPaymentRecordRepository(setupTestDB(t), logger.NewLogger())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newRecord(t, "wx-tx-001", 990)))
	assert.Error(t, repo.Create(ctx, newRecord(t, "wx-tx-001", 990)))
}

func TestPaymentRecordRepository_UpdateStatus(t *testing.T) {
	repo := NewPaymentRecordRepository(setupTestDB(t), logger.NewLogger())
	ctx := context.Background()

	rec, err := payment.NewRecord("user-1", "wx-tx-001",
		pvo.NewMoney(990, ""), pvo.PaymentStatusFailed)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, rec))

	require.NoError(t, rec.MarkSuccess())
	require.NoError(t, repo.UpdateStatus(ctx, rec))

	got, err := repo.FindByTransactionID(ctx, "wx-tx-001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, pvo.PaymentStatusSuccess, got.Status())
}

func TestPaymentRecordRepository_UpdateStatusRefusesLinkedRecord(t *testing.T) {
	repo := NewPaymentRecordRepository(setupTestDB(t), logger.NewLogger())
	ctx := context.Background()

	rec := newRecord(t, "wx-tx-001", 990)
	require.NoError(t, repo.Create(ctx, rec))
	require.NoError(t, rec.Link(42))
	require.NoError(t, repo.LinkSubscription(ctx, rec))

	assert.Error(t, repo.UpdateStatus(ctx, rec))
}

func TestPaymentRecordRepository_LinkSubscription(t *testing.T) {
	repo := NewPaymentRecordRepository(setupTestDB(t), logger.NewLogger())
	ctx := context.Background()

	rec := newRecord(t, "wx-tx-001", 990)
	require.NoError(t, repo.Create(ctx, rec))

	require.NoError(t, rec.Link(42))
	require.NoError(t, repo.LinkSubscription(ctx, rec))

	got, err := repo.FindByTransactionID(ctx, "wx-tx-001")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.True(t, got.IsLinked())
	assert.Equal(t, uint(42), *got.SubscriptionID())
}

func TestPaymentRecordRepository_LinkIsOneShot(t *testing.T) {
	repo := NewPaymentRecordRepository(setupTestDB(t), logger.NewLogger())
	ctx := context.Background()

	rec := newRecord(t, "wx-tx-001", 990)
	require.NoError(t, repo.Create(ctx, rec))
	require.NoError(t, rec.Link(42))
	require.NoError(t, repo.LinkSubscription(ctx, rec))

	// a second link attempt finds no unlinked row to update
	assert.Error(t, repo.LinkSubscription(ctx, rec))
}
