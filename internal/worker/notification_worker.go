// Package worker moves notification delivery off the request path.
package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/peer-support/internal/events"
	"github.com/spec-kit/peer-support/internal/service"
)

// ErrStopped is returned by Publish once the worker has been stopped.
var ErrStopped = errors.New("notification worker stopped")

// NotificationWorker is an events.Dispatcher that queues published events
// and hands them to the wrapped dispatcher from background goroutines.
// Publish only blocks when the queue is full.
type NotificationWorker struct {
	inner  events.Dispatcher
	queue  chan events.Event
	logger *zap.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewNotificationWorker wraps inner with a queue of the given size.
func NewNotificationWorker(inner events.Dispatcher, queueSize int, logger *zap.Logger) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = 256
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		inner:  inner,
		queue:  make(chan events.Event, queueSize),
		logger: logger,
	}
}

// Subscribe registers a handler on the wrapped dispatcher.
func (w *NotificationWorker) Subscribe(eventType events.EventType, handler events.EventHandler) {
	w.inner.Subscribe(eventType, handler)
}

// Publish enqueues the event.
func (w *NotificationWorker) Publish(ctx context.Context, event events.Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return ErrStopped
	}
	select {
	case w.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Start launches n delivery goroutines.
func (w *NotificationWorker) Start(n int) {
	if n <= 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		w.wg.Add(1)
		go w.loop()
	}
}

func (w *NotificationWorker) loop() {
	defer w.wg.Done()
	for event := range w.queue {
		// Delivery outlives the request that published the event.
		if err := w.inner.Publish(context.Background(), event); err != nil {
			w.logger.Warn("notification delivery failed",
				zap.String("event_type", string(event.Type)),
				zap.String("message_id", event.MessageID),
				zap.Error(err))
		}
	}
}

// Stop refuses new events, drains the queue and waits for the delivery
// goroutines to exit or ctx to end.
func (w *NotificationWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.queue)
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StartNotificationWorker registers the notification handlers on a fresh
// in-process dispatcher and starts delivering from the queue. The returned
// worker is the dispatcher services should publish to.
func StartNotificationWorker(notificationService *service.NotificationService, queueSize, workers int, logger *zap.Logger) *NotificationWorker {
	inner := events.NewInMemoryDispatcher()
	if notificationService != nil {
		notificationService.RegisterHandlers(inner)
	}
	w := NewNotificationWorker(inner, queueSize, logger)
	w.Start(workers)
	return w
}
