package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/peer-support/internal/api/http/handlers"
	"github.com/spec-kit/peer-support/internal/auth"
	"github.com/spec-kit/peer-support/internal/domain"
	"github.com/spec-kit/peer-support/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Messages       *handlers.MessagesHandler
	Counselor      *handlers.CounselorHandler
	CounselorAuth  *handlers.CounselorAuthHandler
	AuthMiddleware *auth.AuthMiddleware
	// Metrics, when set, is scraped at /metrics.
	Metrics *observability.Metrics
	// Limiter throttles the anonymous and login endpoints; nil disables it.
	Limiter *ClientLimiter
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	messages := app.Group("/messages", cfg.Limiter.Handler())
	messages.Post("", cfg.Messages.Submit)
	messages.Get("/track/:code", cfg.Messages.Track)
	messages.Post("/track/:code/replies", cfg.Messages.Reply)

	app.Post("/auth/counselors/login", cfg.Limiter.Handler(), cfg.CounselorAuth.Login)

	counselor := app.Group("/counselor", cfg.AuthMiddleware.Handle, auth.RequireCounselor())
	counselor.Get("/messages", cfg.Counselor.ListMessages)
	counselor.Get("/messages/:id", cfg.Counselor.GetMessage)
	counselor.Post("/messages/:id/replies", cfg.Counselor.Reply)
	counselor.Patch("/messages/:id/status", cfg.Counselor.UpdateStatus)
	counselor.Get("/stats", cfg.Counselor.Stats)
	counselor.Post("/crisis/analyze", cfg.Counselor.Analyze)

	counselor.Get("/metrics", auth.RequireAtLeast(domain.CounselorRoleSupervisor), cfg.Counselor.Metrics)
	counselor.Post("/counselors", auth.RequireRole(domain.CounselorRoleAdmin), cfg.CounselorAuth.Create)
}
