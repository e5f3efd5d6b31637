package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	paymentUsecases "gluco/internal/application/payment/usecases"
	subUsecases "gluco/internal/application/subscription/usecases"
	"gluco/internal/infrastructure/config"
	"gluco/internal/infrastructure/database"
	"gluco/internal/infrastructure/gateway/wechat"
	"gluco/internal/infrastructure/migration"
	"gluco/internal/infrastructure/repository"
	httpRouter "gluco/internal/interfaces/http"
	"gluco/internal/shared/db"
	"gluco/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the subscription service HTTP server with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Automatically run database migrations on startup (not recommended for production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("starting server",
		"environment", env,
		"auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer database.Close()

	if autoMigrate {
		if env == "production" {
			logger.Warn("auto-migration is enabled in production environment - this is not recommended!")
		}
		manager := migration.NewManager(env)
		if err := manager.Migrate(database.Get(), migration.AutoMigrateModels()...); err != nil {
			logger.Fatal("auto-migration failed", "error", err)
		}
	}

	catalog, err := cfg.BuildCatalog()
	if err != nil {
		logger.Fatal("failed to build plan catalog", "error", err)
	}

	gateway, err := wechat.NewClient(cfg.WechatPay, logger.NewLogger().With("component", "wechat"))
	if err != nil {
		logger.Fatal("failed to initialize payment gateway", "error", err)
	}

	log := logger.NewLogger()
	txm := db.NewTransactionManager(database.Get())
	subscriptionRepo := repository.NewSubscriptionRepository(database.Get(), log)
	paymentRepo := repository.NewPaymentRecordRepository(database.Get(), log)

	applyActionUC := subUsecases.NewApplyActionUseCase(subscriptionRepo, catalog, txm, log)

	router := httpRouter.NewRouter(httpRouter.UseCases{
		GetStatus:      subUsecases.NewGetStatusUseCase(subscriptionRepo, catalog, txm, log),
		ApplyAction:    applyActionUC,
		BootstrapTrial: subUsecases.NewBootstrapTrialUseCase(subscriptionRepo, catalog, txm, log),
		ListPlans:      subUsecases.NewListPlansUseCase(catalog),
		CreatePayment: paymentUsecases.NewCreatePaymentUseCase(
			subscriptionRepo, catalog, gateway, txm, log),
		HandleNotification: paymentUsecases.NewHandleNotificationUseCase(
			gateway, paymentRepo, subscriptionRepo, applyActionUC, txm, log),
	}, log)
	router.SetupRoutes()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
