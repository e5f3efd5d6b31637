package handlers

import (
	"github.com/gin-gonic/gin"

	subUsecases "gluco/internal/application/subscription/usecases"
	"gluco/internal/shared/utils"
)

type PlanHandler struct {
	listPlansUC *subUsecases.ListPlansUseCase
}

func NewPlanHandler(listPlansUC *subUsecases.ListPlansUseCase) *PlanHandler {
	return &PlanHandler{listPlansUC: listPlansUC}
}

// ListPlans returns the static plan catalog in tier order.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	utils.OKResponse(c, h.listPlansUC.Execute())
}
