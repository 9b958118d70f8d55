package events

import (
	"time"

	"github.com/spec-kit/peer-support/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventMessageCreated       EventType = "message_created"
	EventCrisisDetected       EventType = "crisis_detected"
	EventMessageStatusChanged EventType = "message_status_changed"
	EventMessageReplyAdded    EventType = "message_reply_added"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type        domain.ReplyAuthor `json:"type"`
	CounselorID *string            `json:"counselor_id,omitempty"`
}

// Event represents a domain event emitted by services. Events never carry
// the tracking code or the message body.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	MessageID string      `json:"message_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// MessageCreatedPayload payload.
type MessageCreatedPayload struct {
	Category         domain.Category    `json:"category"`
	DeclaredUrgency  domain.Urgency     `json:"declared_urgency"`
	EffectiveUrgency domain.Urgency     `json:"effective_urgency"`
	Mood             domain.Mood        `json:"mood"`
	CrisisLevel      domain.CrisisLevel `json:"crisis_level"`
}

// CrisisDetectedPayload payload.
type CrisisDetectedPayload struct {
	Level            domain.CrisisLevel `json:"level"`
	Score            int                `json:"score"`
	Categories       []string           `json:"categories"`
	EffectiveUrgency domain.Urgency     `json:"effective_urgency"`
	Recommendation   string             `json:"recommendation"`
}

// MessageStatusChangedPayload payload.
type MessageStatusChangedPayload struct {
	OldStatus domain.MessageStatus `json:"old_status"`
	NewStatus domain.MessageStatus `json:"new_status"`
}

// MessageReplyAddedPayload payload.
type MessageReplyAddedPayload struct {
	Author      domain.ReplyAuthor `json:"author"`
	ReplyCount  int                `json:"reply_count"`
	BodyPreview string             `json:"body_preview"`
}
