package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	subUsecases "gluco/internal/application/subscription/usecases"
	pvo "gluco/internal/domain/payment/valueobjects"
	svo "gluco/internal/domain/subscription/valueobjects"
	"gluco/internal/shared/logger"
	"gluco/internal/shared/utils"
)

type SubscriptionHandler struct {
	getStatusUC      *subUsecases.GetStatusUseCase
	applyActionUC    *subUsecases.ApplyActionUseCase
	bootstrapTrialUC *subUsecases.BootstrapTrialUseCase
	logger           logger.Interface
}

func NewSubscriptionHandler(
	getStatusUC *subUsecases.GetStatusUseCase,
	applyActionUC *subUsecases.ApplyActionUseCase,
	bootstrapTrialUC *subUsecases.BootstrapTrialUseCase,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		getStatusUC:      getStatusUC,
		applyActionUC:    applyActionUC,
		bootstrapTrialUC: bootstrapTrialUC,
		logger:           logger,
	}
}

// GetStatus returns the caller's subscription status, expiry dates and the
// actions currently purchasable.
func (h *SubscriptionHandler) GetStatus(c *gin.Context) {
	userID := c.GetString("user_id")

	result, err := h.getStatusUC.Execute(c.Request.Context(), subUsecases.GetStatusQuery{
		UserID: userID,
	})
	if err != nil {
		h.logger.Errorw("failed to get subscription status", "user_id", userID, "error", err)
		utils.HandleAppError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

type UpdateSubscriptionRequest struct {
	Action     string `json:"action" binding:"required,oneof=renewal upgrade"`
	PlanID     string `json:"plan_id" binding:"required"`
	PaymentFen int64  `json:"payment_fen"`
}

// UpdateSubscription applies a paid action directly. The payment amount the
// client sends must match the current quote exactly; the gateway-notification
// path goes through the same check, so the two can never diverge.
func (h *SubscriptionHandler) UpdateSubscription(c *gin.Context) {
	userID := c.GetString("user_id")

	var req UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	action, err := svo.ParseActionType(req.Action)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	err = h.applyActionUC.Execute(c.Request.Context(), subUsecases.ApplyActionCommand{
		UserID:          userID,
		Action:          action,
		PlanID:          req.PlanID,
		ExpectedPayment: pvo.NewMoney(req.PaymentFen, ""),
	})
	if err != nil {
		h.logger.Errorw("failed to update subscription",
			"user_id", userID, "action", req.Action, "plan_id", req.PlanID, "error", err)
		utils.HandleAppError(c, err)
		return
	}

	result, err := h.getStatusUC.Execute(c.Request.Context(), subUsecases.GetStatusQuery{
		UserID: userID,
	})
	if err != nil {
		utils.HandleAppError(c, err)
		return
	}

	utils.OKResponse(c, result)
}

// BootstrapTrial grants the trial plan to a first-time user. Users with any
// subscription history get a 200 with no new subscription.
func (h *SubscriptionHandler) BootstrapTrial(c *gin.Context) {
	userID := c.GetString("user_id")

	err := h.bootstrapTrialUC.Execute(c.Request.Context(), subUsecases.BootstrapTrialCommand{
		UserID: userID,
	})
	if err != nil {
		h.logger.Errorw("failed to bootstrap trial", "user_id", userID, "error", err)
		utils.HandleAppError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "trial bootstrap completed", nil)
}
