package migration

import (
	"gluco/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.SubscriptionModel{},
		&models.PaymentRecordModel{},
	}
}
