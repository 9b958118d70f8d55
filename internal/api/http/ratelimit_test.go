package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientLimiterPerKeyBuckets(t *testing.T) {
	l := NewClientLimiter(60, 2)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	ok, _ := l.Allow("10.0.0.1")
	assert.True(t, ok)
	ok, _ = l.Allow("10.0.0.1")
	assert.True(t, ok)
	ok, wait := l.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.InDelta(t, time.Second, wait, float64(10*time.Millisecond))

	ok, _ = l.Allow("10.0.0.2")
	assert.True(t, ok)

	now = now.Add(time.Second)
	ok, _ = l.Allow("10.0.0.1")
	assert.True(t, ok)
}

func TestClientLimiterSweepsIdleVisitors(t *testing.T) {
	l := NewClientLimiter(60, 1)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("a")
	l.Allow("b")
	require.Len(t, l.visitors, 2)

	now = now.Add(visitorTTL + time.Minute)
	l.Allow("c")
	assert.Len(t, l.visitors, 1)
	assert.Contains(t, l.visitors, "c")
}

func TestDisabledLimiterPassesThrough(t *testing.T) {
	l := NewClientLimiter(0, 5)
	assert.Nil(t, l)

	app := fiber.New()
	app.Get("/", l.Handler(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}
}

func TestSubmissionEndpointIsRateLimited(t *testing.T) {
	s := newTestServerWith(t, NewClientLimiter(1, 2))

	payload := map[string]string{"category": "otro", "urgency": "baja", "mood": "bien", "body": "hola"}
	for i := 0; i < 2; i++ {
		status, body := s.do(t, fiber.MethodPost, "/messages", "", payload)
		require.Equal(t, fiber.StatusCreated, status, body)
	}

	status, body := s.do(t, fiber.MethodPost, "/messages", "", payload)
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Equal(t, "RATE_LIMITED", body["error"].(map[string]any)["code"])

	status, _ = s.do(t, fiber.MethodGet, "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
}
