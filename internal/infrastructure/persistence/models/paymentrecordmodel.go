package models

import "time"

// PaymentRecordModel is the payment_records table row. The unique index on
// TransactionID is what makes webhook redelivery safe under concurrency.
type PaymentRecordModel struct {
	ID             uint   `gorm:"primaryKey"`
	UserID         string `gorm:"size:64;not null;index"`
	SubscriptionID *uint  `gorm:"index"`
	TransactionID  string `gorm:"size:64;not null;uniqueIndex"`
	AmountFen      int64  `gorm:"not null"`
	Currency       string `gorm:"size:10;not null;default:'CNY'"`
	Status         string `gorm:"size:16;not null"`
	CreatedAt      time.Time
}

func (PaymentRecordModel) TableName() string {
	return "payment_records"
}
