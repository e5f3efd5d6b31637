package mappers

import (
	"fmt"

	"gluco/internal/domain/payment"
	vo "gluco/internal/domain/payment/valueobjects"
	"gluco/internal/infrastructure/persistence/models"
)

func RecordToModel(r *payment.Record) *models.PaymentRecordModel {
	return &models.PaymentRecordModel{
		ID:             r.ID(),
		UserID:         r.UserID(),
		SubscriptionID: r.SubscriptionID(),
		TransactionID:  r.TransactionID(),
		AmountFen:      r.Amount().AmountInFen(),
		Currency:       r.Amount().Currency(),
		Status:         r.Status().String(),
		CreatedAt:      r.CreatedAt(),
	}
}

func RecordToDomain(model *models.PaymentRecordModel) (*payment.Record, error) {
	status := vo.PaymentStatus(model.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid payment status: %s", model.Status)
	}

	return payment.ReconstructRecord(
		model.ID, model.UserID, model.SubscriptionID, model.TransactionID,
		vo.NewMoney(model.AmountFen, model.Currency), status, model.CreatedAt,
	)
}
