package mappers

import (
	"fmt"

	"gluco/internal/domain/subscription"
	vo "gluco/internal/domain/subscription/valueobjects"
	"gluco/internal/infrastructure/persistence/models"
)

func SubscriptionToModel(s *subscription.Subscription) *models.SubscriptionModel {
	return &models.SubscriptionModel{
		ID:        s.ID(),
		UserID:    s.UserID(),
		PlanID:    s.PlanID(),
		Status:    s.Status().String(),
		StartDate: s.StartDate(),
		ExpiresAt: s.ExpiresAt(),
		CreatedAt: s.CreatedAt(),
		UpdatedAt: s.UpdatedAt(),
	}
}

func SubscriptionToDomain(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	status := vo.SubscriptionStatus(model.Status)
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", model.Status)
	}

	return subscription.ReconstructSubscription(
		model.ID, model.UserID, model.PlanID, status,
		model.StartDate, model.ExpiresAt,
		model.CreatedAt, model.UpdatedAt,
	)
}

func SubscriptionsToDomain(ms []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	out := make([]*subscription.Subscription, 0, len(ms))
	for _, m := range ms {
		s, err := SubscriptionToDomain(m)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
