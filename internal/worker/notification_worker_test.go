package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/peer-support/internal/config"
	"github.com/spec-kit/peer-support/internal/domain"
	"github.com/spec-kit/peer-support/internal/events"
	"github.com/spec-kit/peer-support/internal/service"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWorkerDeliversQueuedEvents(t *testing.T) {
	inner := events.NewInMemoryDispatcher()
	var (
		mu  sync.Mutex
		got []string
	)
	inner.Subscribe(events.EventMessageCreated, func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.MessageID)
		return nil
	})

	w := NewNotificationWorker(inner, 8, nil)
	w.Start(1)
	for _, id := range []string{"m-1", "m-2", "m-3"} {
		require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventMessageCreated, MessageID: id}))
	}
	require.NoError(t, w.Stop(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"m-1", "m-2", "m-3"}, got)
}

func TestWorkerRejectsPublishAfterStop(t *testing.T) {
	w := NewNotificationWorker(events.NewInMemoryDispatcher(), 1, nil)
	w.Start(2)
	require.NoError(t, w.Stop(context.Background()))
	require.NoError(t, w.Stop(context.Background()))

	err := w.Publish(context.Background(), events.Event{Type: events.EventMessageCreated})
	assert.ErrorIs(t, err, ErrStopped)
}

func TestWorkerPublishHonorsContextWhenQueueFull(t *testing.T) {
	w := NewNotificationWorker(events.NewInMemoryDispatcher(), 1, nil)
	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventMessageCreated}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := w.Publish(ctx, events.Event{Type: events.EventMessageCreated})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	w.Start(1)
	require.NoError(t, w.Stop(context.Background()))
}

func TestWorkerLogsFailedDelivery(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	inner := events.NewInMemoryDispatcher()
	inner.Subscribe(events.EventCrisisDetected, func(context.Context, events.Event) error {
		return errors.New("webhook down")
	})

	w := NewNotificationWorker(inner, 4, zap.New(core))
	w.Start(1)
	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventCrisisDetected, MessageID: "m-9"}))
	require.NoError(t, w.Stop(context.Background()))

	failures := logs.FilterMessage("notification delivery failed").All()
	require.Len(t, failures, 1)
	assert.Equal(t, "m-9", failures[0].ContextMap()["message_id"])
}

func TestStartNotificationWorkerWiresService(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	svc := service.NewNotificationService(logger, config.NotificationConfig{})

	w := StartNotificationWorker(svc, 4, 2, logger)
	require.NoError(t, w.Publish(context.Background(), events.Event{
		Type:      events.EventMessageStatusChanged,
		MessageID: "m-4",
		Payload: events.MessageStatusChangedPayload{
			OldStatus: domain.MessageStatusNew,
			NewStatus: domain.MessageStatusInReview,
		},
	}))
	require.NoError(t, w.Stop(context.Background()))

	assert.Equal(t, 1, logs.FilterField(zap.String("message_id", "m-4")).Len())
}
