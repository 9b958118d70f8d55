package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/peer-support/internal/config"
	"github.com/spec-kit/peer-support/internal/domain"
	"github.com/spec-kit/peer-support/internal/events"
)

// NotificationService turns message events into counselor-facing alerts.
// Notifications never include the tracking code or the message body.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		logger: logger,
		cfg:    cfg,
	}
}

// RegisterHandlers subscribes the notification handlers on dispatcher.
func (n *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventMessageCreated, n.handleMessageCreated)
	dispatcher.Subscribe(events.EventCrisisDetected, n.handleCrisisDetected)
	dispatcher.Subscribe(events.EventMessageStatusChanged, n.handleStatusChanged)
	dispatcher.Subscribe(events.EventMessageReplyAdded, n.handleReplyAdded)
}

func (n *NotificationService) handleMessageCreated(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.MessageCreatedPayload)
	n.logger.Info("MessageCreated",
		zap.String("message_id", event.MessageID),
		zap.String("category", string(payload.Category)),
		zap.String("effective_urgency", string(payload.EffectiveUrgency)))
	if payload.EffectiveUrgency == domain.UrgencyUrgent {
		n.sendWebhookNotificationStub(ctx, event)
	}
	return nil
}

func (n *NotificationService) handleCrisisDetected(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.CrisisDetectedPayload)
	n.logger.Warn("CrisisAlert",
		zap.String("message_id", event.MessageID),
		zap.String("level", string(payload.Level)),
		zap.Int("score", payload.Score),
		zap.Strings("categories", payload.Categories))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleStatusChanged(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.MessageStatusChangedPayload)
	n.logger.Info("MessageStatusChanged",
		zap.String("message_id", event.MessageID),
		zap.String("old_status", string(payload.OldStatus)),
		zap.String("new_status", string(payload.NewStatus)))
	return nil
}

func (n *NotificationService) handleReplyAdded(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.MessageReplyAddedPayload)
	n.logger.Info("MessageReplyAdded",
		zap.String("message_id", event.MessageID),
		zap.String("author", string(payload.Author)),
		zap.Int("reply_count", payload.ReplyCount))
	// Submitter follow-ups reopen the conversation.
	if payload.Author == domain.ReplyAuthorSubmitter {
		n.sendEmailNotificationStub(ctx, event)
	}
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("message_id", event.MessageID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("message_id", event.MessageID),
		zap.String("event_type", string(event.Type)))
}
