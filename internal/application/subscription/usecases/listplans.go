package usecases

import (
	"gluco/internal/application/subscription/dto"
	"gluco/internal/domain/plan"
)

// ListPlansUseCase exposes the static catalog in tier order.
type ListPlansUseCase struct {
	catalog *plan.Catalog
}

func NewListPlansUseCase(catalog *plan.Catalog) *ListPlansUseCase {
	return &ListPlansUseCase{catalog: catalog}
}

func (uc *ListPlansUseCase) Execute() []dto.PlanDTO {
	plans := uc.catalog.All()
	out := make([]dto.PlanDTO, 0, len(plans))
	for _, p := range plans {
		out = append(out, dto.PlanDTO{
			ID:           p.ID(),
			Name:         p.Name(),
			Description:  p.Description(),
			DurationDays: p.DurationDays(),
			Lifetime:     p.IsLifetime(),
			PriceFen:     p.Price().AmountInFen(),
			Available:    p.Available(),
		})
	}
	return out
}
