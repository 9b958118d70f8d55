package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func readiness(t *testing.T, deps map[string]Pinger) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	app.Get("/ready", NewHealthHandler("peer-support", "test", "redis", deps).Ready)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ready", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestReadyAllDependenciesUp(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	status, body := readiness(t, map[string]Pinger{"redis": ok, "postgres": ok})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "redis", body["store_backend"])
	assert.Equal(t, map[string]any{"redis": "ok", "postgres": "ok"}, body["dependencies"])
}

func TestReadyReportsFailingDependency(t *testing.T) {
	status, body := readiness(t, map[string]Pinger{
		"postgres": pingFunc(func(context.Context) error { return nil }),
		"redis":    pingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})

	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", errBody["code"])
	assert.Equal(t, map[string]any{"postgres": "ok", "redis": "connection refused"}, errBody["details"])
}

func TestReadyWithoutDependencies(t *testing.T) {
	status, body := readiness(t, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ready", body["status"])
}
