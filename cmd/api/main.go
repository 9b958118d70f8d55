package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/peer-support/internal/api/http"
	"github.com/spec-kit/peer-support/internal/api/http/handlers"
	"github.com/spec-kit/peer-support/internal/auth"
	"github.com/spec-kit/peer-support/internal/bootstrap"
	"github.com/spec-kit/peer-support/internal/config"
	"github.com/spec-kit/peer-support/internal/observability"
	"github.com/spec-kit/peer-support/internal/service"
	"github.com/spec-kit/peer-support/internal/trackingcode"
	"github.com/spec-kit/peer-support/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, err := bootstrap.OpenStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open stores", zap.Error(err))
	}
	defer stores.Close()

	readiness := make(map[string]handlers.Pinger, len(stores.Readiness))
	for name, dep := range stores.Readiness {
		readiness[name] = dep
	}

	classifier, err := bootstrap.NewClassifier(cfg.Crisis, logger)
	if err != nil {
		logger.Fatal("failed to load crisis keywords", zap.Error(err))
	}
	escalator, err := bootstrap.NewEscalator(cfg.Crisis)
	if err != nil {
		logger.Fatal("invalid escalation policy", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	notificationService := service.NewNotificationService(logger, cfg.Notification)
	dispatcher := worker.StartNotificationWorker(notificationService,
		cfg.Notification.QueueSize, cfg.Notification.Workers, logger)

	messageService := service.NewMessageService(service.MessageDependencies{
		Store:      stores.Messages,
		Classifier: classifier,
		Escalator:  escalator,
		Codes:      trackingcode.NewGenerator(),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	authService := service.NewAuthService(*cfg, stores.Counselors, logger)
	if err := authService.EnsureBootstrapCounselor(ctx); err != nil {
		logger.Fatal("failed to bootstrap counselor", zap.Error(err))
	}
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), stores.Counselors)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name, DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareOptions{
		Logger:      logger,
		Metrics:     metrics,
		Timeout:     cfg.App.RequestTimeout(),
		CORSOrigins: cfg.App.CORSOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, cfg.Store.Backend, readiness),
		Messages:       handlers.NewMessagesHandler(messageService),
		Counselor:      handlers.NewCounselorHandler(messageService, metrics),
		CounselorAuth:  handlers.NewCounselorAuthHandler(authService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
		Limiter:        httptransport.NewClientLimiter(cfg.App.RatePerMinute, cfg.App.RateBurst),
	})

	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("store_backend", cfg.Store.Backend),
			zap.String("escalation_policy", cfg.Crisis.EscalationPolicy))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}

	drainCtx, drainCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer drainCancel()
	if err := dispatcher.Stop(drainCtx); err != nil {
		logger.Warn("notification queue not drained", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
