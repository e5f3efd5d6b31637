package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"gluco/internal/domain/payment"
	"gluco/internal/infrastructure/persistence/mappers"
	"gluco/internal/infrastructure/persistence/models"
	"gluco/internal/shared/db"
	"gluco/internal/shared/logger"
)

type PaymentRecordRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPaymentRecordRepository(
	gdb *gorm.DB,
	logger logger.Interface,
) payment.RecordRepository {
	return &PaymentRecordRepositoryImpl{
		db:     gdb,
		logger: logger,
	}
}

func (r *PaymentRecordRepositoryImpl) conn(ctx context.Context) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db)
}

func (r *PaymentRecordRepositoryImpl) Create(ctx context.Context, rec *payment.Record) error {
	model := mappers.RecordToModel(rec)

	if err := r.conn(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create payment record",
			"transaction_id", rec.TransactionID(), "error", err)
		return fmt.Errorf("failed to create payment record: %w", err)
	}

	if err := rec.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set payment record ID: %w", err)
	}

	return nil
}

func (r *PaymentRecordRepositoryImpl) LinkSubscription(ctx context.Context, rec *payment.Record) error {
	result := r.conn(ctx).Model(&models.PaymentRecordModel{}).
		Where("id = ? AND subscription_id IS NULL", rec.ID()).
		Update("subscription_id", rec.SubscriptionID())
	if result.Error != nil {
		r.logger.Errorw("failed to link payment record",
			"id", rec.ID(), "error", result.Error)
		return fmt.Errorf("failed to link payment record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("payment record %d not found or already linked", rec.ID())
	}

	return nil
}

func (r *PaymentRecordRepositoryImpl) UpdateStatus(ctx context.Context, rec *payment.Record) error {
	result := r.conn(ctx).Model(&models.PaymentRecordModel{}).
		Where("id = ? AND subscription_id IS NULL", rec.ID()).
		Update("status", rec.Status().String())
	if result.Error != nil {
		r.logger.Errorw("failed to update payment record status",
			"id", rec.ID(), "error", result.Error)
		return fmt.Errorf("failed to update payment record status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("payment record %d not found or already linked", rec.ID())
	}

	return nil
}

func (r *PaymentRecordRepositoryImpl) FindByTransactionID(ctx context.Context, transactionID string) (*payment.Record, error) {
	var model models.PaymentRecordModel

	err := r.conn(ctx).
		Where("transaction_id = ?", transactionID).
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to find payment record",
			"transaction_id", transactionID, "error", err)
		return nil, fmt.Errorf("failed to find payment record: %w", err)
	}

	return mappers.RecordToDomain(&model)
}
