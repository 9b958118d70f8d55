package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

const readinessTimeout = 2 * time.Second

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler responds to liveness and readiness checks.
type HealthHandler struct {
	serviceName  string
	version      string
	storeBackend string
	deps         map[string]Pinger
}

// NewHealthHandler builds the health handler. Only deps take part in
// readiness; a deployment on the memory store is always ready.
func NewHealthHandler(serviceName, version, storeBackend string, deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, storeBackend: storeBackend, deps: deps}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready pings every dependency in parallel under one deadline.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()

	statuses, ready := h.checkDeps(ctx)
	if ready {
		return c.JSON(fiber.Map{
			"status":        "ready",
			"store_backend": h.storeBackend,
			"dependencies":  statuses,
		})
	}
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": statuses,
		},
	})
}

func (h *HealthHandler) checkDeps(ctx context.Context) (map[string]string, bool) {
	var (
		mu       sync.Mutex
		statuses = make(map[string]string, len(h.deps))
		ready    = true
		g        errgroup.Group
	)
	for name, dep := range h.deps {
		g.Go(func() error {
			status := "ok"
			if err := dep.Ping(ctx); err != nil {
				status = err.Error()
			}
			mu.Lock()
			defer mu.Unlock()
			statuses[name] = status
			ready = ready && status == "ok"
			return nil
		})
	}
	_ = g.Wait()
	return statuses, ready
}
