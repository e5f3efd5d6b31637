package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gluco/internal/domain/subscription"
	svo "gluco/internal/domain/subscription/valueobjects"
	"gluco/internal/infrastructure/persistence/mappers"
	"gluco/internal/infrastructure/persistence/models"
	"gluco/internal/shared/db"
	"gluco/internal/shared/logger"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSubscriptionRepository(
	gdb *gorm.DB,
	logger logger.Interface,
) subscription.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		db:     gdb,
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) conn(ctx context.Context) *gorm.DB {
	return db.GetTxFromContext(ctx, r.db)
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, sub *subscription.Subscription) error {
	model := mappers.SubscriptionToModel(sub)

	if err := r.conn(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription", "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := sub.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set subscription ID: %w", err)
	}

	return nil
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, sub *subscription.Subscription) error {
	model := mappers.SubscriptionToModel(sub)

	result := r.conn(ctx).Model(&models.SubscriptionModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"expires_at": model.ExpiresAt,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("subscription %d not found", model.ID)
	}

	return nil
}

func (r *SubscriptionRepositoryImpl) ListNonTerminal(ctx context.Context, userID string) ([]*subscription.Subscription, error) {
	return r.listNonTerminal(ctx, userID, false)
}

func (r *SubscriptionRepositoryImpl) ListNonTerminalForUpdate(ctx context.Context, userID string) ([]*subscription.Subscription, error) {
	return r.listNonTerminal(ctx, userID, true)
}

func (r *SubscriptionRepositoryImpl) listNonTerminal(ctx context.Context, userID string, forUpdate bool) ([]*subscription.Subscription, error) {
	var rows []*models.SubscriptionModel

	query := r.conn(ctx).
		Where("user_id = ? AND status IN ?", userID,
			[]string{svo.StatusActive.String(), svo.StatusFuture.String()}).
		Order("expires_at ASC")

	// Row locks serialize concurrent check-then-apply sequences per user.
	// SQLite has no SELECT ... FOR UPDATE; its writer lock covers the same
	// ground in tests.
	if forUpdate && r.conn(ctx).Dialector.Name() == "mysql" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	if err := query.Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list subscriptions", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	return mappers.SubscriptionsToDomain(rows)
}

func (r *SubscriptionRepositoryImpl) LatestByPlan(ctx context.Context, userID, planID string) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	err := r.conn(ctx).
		Where("user_id = ? AND plan_id = ? AND status IN ?", userID, planID,
			[]string{svo.StatusActive.String(), svo.StatusFuture.String()}).
		Order("id DESC").
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		r.logger.Errorw("failed to get latest subscription by plan",
			"user_id", userID, "plan_id", planID, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return mappers.SubscriptionToDomain(&model)
}

func (r *SubscriptionRepositoryImpl) HasHistory(ctx context.Context, userID string) (bool, error) {
	var count int64

	err := r.conn(ctx).Model(&models.SubscriptionModel{}).
		Where("user_id = ?", userID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to check subscription history", "user_id", userID, "error", err)
		return false, fmt.Errorf("failed to check subscription history: %w", err)
	}

	return count > 0, nil
}
