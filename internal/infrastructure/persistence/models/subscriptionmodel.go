package models

import "time"

// SubscriptionModel is the subscriptions table row. Rows are append-mostly:
// status flips in place, everything else is written once.
type SubscriptionModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    string    `gorm:"size:64;not null;index:idx_user_status"`
	PlanID    string    `gorm:"size:32;not null"`
	Status    string    `gorm:"size:16;not null;index:idx_user_status"`
	StartDate time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SubscriptionModel) TableName() string {
	return "subscriptions"
}
