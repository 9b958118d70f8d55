package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/peer-support/internal/auth"
)

// RequestLogger logs each request and feeds the request counters. Query
// strings and bodies are never logged since they may carry tracking codes
// or message text.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		route := RouteLabel(c)
		status := c.Response().StatusCode()
		metrics.RecordRequest(route, c.Method(), status, duration)

		fields := []zap.Field{
			zap.String("request_id", RequestID(c)),
			zap.String("method", c.Method()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", duration),
		}
		if principal, ok := auth.PrincipalFrom(c.UserContext()); ok {
			fields = append(fields, zap.String("counselor_id", principal.Counselor.ID))
		}
		logger.Info("request", fields...)
		return err
	}
}

// RouteLabel returns the matched route pattern so path parameters such as
// tracking codes never reach logs or metric labels.
func RouteLabel(c *fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
		return r.Path
	}
	return "unmatched"
}

// RequestID returns the id assigned by the requestid middleware, if any.
func RequestID(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
