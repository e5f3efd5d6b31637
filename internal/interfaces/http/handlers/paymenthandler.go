package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	paymentUsecases "gluco/internal/application/payment/usecases"
	svo "gluco/internal/domain/subscription/valueobjects"
	apperrors "gluco/internal/shared/errors"
	"gluco/internal/shared/logger"
	"gluco/internal/shared/utils"
)

type PaymentHandler struct {
	createPaymentUC      *paymentUsecases.CreatePaymentUseCase
	handleNotificationUC *paymentUsecases.HandleNotificationUseCase
	logger               logger.Interface
}

func NewPaymentHandler(
	createPaymentUC *paymentUsecases.CreatePaymentUseCase,
	handleNotificationUC *paymentUsecases.HandleNotificationUseCase,
	logger logger.Interface,
) *PaymentHandler {
	return &PaymentHandler{
		createPaymentUC:      createPaymentUC,
		handleNotificationUC: handleNotificationUC,
		logger:               logger,
	}
}

type CreatePaymentRequest struct {
	Action string `json:"action" binding:"required,oneof=renewal upgrade"`
	PlanID string `json:"plan_id" binding:"required"`
}

// CreatePayment validates the requested action against the caller's ledger
// and returns client-side payment authorization parameters. The charged
// amount is always computed server-side.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	userID := c.GetString("user_id")

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	action, err := svo.ParseActionType(req.Action)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	params, err := h.createPaymentUC.Execute(c.Request.Context(), paymentUsecases.CreatePaymentCommand{
		UserID: userID,
		Action: action,
		PlanID: req.PlanID,
	})
	if err != nil {
		h.logger.Errorw("failed to create payment",
			"user_id", userID, "action", req.Action, "plan_id", req.PlanID, "error", err)
		utils.HandleAppError(c, err)
		return
	}

	utils.OKResponse(c, params)
}

// notifyResponse is the acknowledgement format the gateway expects. Any
// non-SUCCESS code (or non-2xx status) triggers redelivery.
type notifyResponse struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// HandleNotification processes an asynchronous payment notification from the
// gateway.
func (h *PaymentHandler) HandleNotification(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, notifyResponse{Code: "FAIL", Message: "failed to read body"})
		return
	}

	err = h.handleNotificationUC.Execute(c.Request.Context(), c.Request.Header, body)
	if err != nil {
		h.logger.Errorw("failed to handle payment notification", "error", err)

		// Validation failures will not succeed on redelivery; report them as
		// client errors. Everything else asks the gateway to retry.
		status := http.StatusInternalServerError
		if apperrors.IsValidationError(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, notifyResponse{Code: "FAIL", Message: "notification processing failed"})
		return
	}

	c.JSON(http.StatusOK, notifyResponse{Code: "SUCCESS"})
}
