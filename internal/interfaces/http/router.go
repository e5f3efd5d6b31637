// Package http wires the HTTP surface: route registration, identity
// resolution and the shared response envelope.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	paymentUsecases "gluco/internal/application/payment/usecases"
	subUsecases "gluco/internal/application/subscription/usecases"
	"gluco/internal/interfaces/http/handlers"
	"gluco/internal/interfaces/http/middleware"
	"gluco/internal/shared/logger"
)

type Router struct {
	engine              *gin.Engine
	subscriptionHandler *handlers.SubscriptionHandler
	planHandler         *handlers.PlanHandler
	paymentHandler      *handlers.PaymentHandler
	logger              logger.Interface
}

type UseCases struct {
	GetStatus          *subUsecases.GetStatusUseCase
	ApplyAction        *subUsecases.ApplyActionUseCase
	BootstrapTrial     *subUsecases.BootstrapTrialUseCase
	ListPlans          *subUsecases.ListPlansUseCase
	CreatePayment      *paymentUsecases.CreatePaymentUseCase
	HandleNotification *paymentUsecases.HandleNotificationUseCase
}

func NewRouter(uc UseCases, log logger.Interface) *Router {
	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logger(log))

	return &Router{
		engine:              engine,
		subscriptionHandler: handlers.NewSubscriptionHandler(uc.GetStatus, uc.ApplyAction, uc.BootstrapTrial, log),
		planHandler:         handlers.NewPlanHandler(uc.ListPlans),
		paymentHandler:      handlers.NewPaymentHandler(uc.CreatePayment, uc.HandleNotification, log),
		logger:              log,
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api")

	api.GET("/plans", r.planHandler.ListPlans)

	// The gateway authenticates by signature, not by user identity.
	api.POST("/payments/notify", r.paymentHandler.HandleNotification)

	authed := api.Group("", middleware.Identity())
	{
		authed.GET("/subscriptions/status", r.subscriptionHandler.GetStatus)
		authed.POST("/subscriptions", r.subscriptionHandler.UpdateSubscription)
		authed.POST("/subscriptions/trial", r.subscriptionHandler.BootstrapTrial)
		authed.POST("/payments", r.paymentHandler.CreatePayment)
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
