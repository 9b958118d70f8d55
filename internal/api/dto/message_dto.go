package dto

import (
	"time"

	"github.com/spec-kit/peer-support/internal/domain"
)

// SubmitMessageRequest payload for anonymous submissions.
type SubmitMessageRequest struct {
	Category domain.Category `json:"category"`
	Urgency  domain.Urgency  `json:"urgency"`
	Mood     domain.Mood     `json:"mood"`
	Body     string          `json:"body"`
}

// SubmitMessageResponse is everything the submitter learns after sending.
type SubmitMessageResponse struct {
	TrackingCode     string         `json:"tracking_code"`
	EffectiveUrgency domain.Urgency `json:"effective_urgency"`
	CrisisDetected   bool           `json:"crisis_detected"`
	Recommendation   string         `json:"recommendation,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// ReplyRequest payload for submitter follow-ups.
type ReplyRequest struct {
	Text string `json:"text"`
}

// ReplyResponse renders a single reply.
type ReplyResponse struct {
	Author    domain.ReplyAuthor `json:"author"`
	Text      string             `json:"text"`
	Timestamp time.Time          `json:"timestamp"`
}

// TrackingView is the submitter's view of a record. It omits counselor
// notes and crisis diagnostics.
type TrackingView struct {
	TrackingCode string               `json:"tracking_code"`
	Category     domain.Category      `json:"category"`
	Status       domain.MessageStatus `json:"status"`
	Body         string               `json:"body"`
	Replies      []ReplyResponse      `json:"replies"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// CounselorReplyRequest payload. Notes always replace the stored counselor
// notes, an omitted field clears them.
type CounselorReplyRequest struct {
	Text  string `json:"text"`
	Notes string `json:"notes"`
}

// StatusUpdateRequest payload.
type StatusUpdateRequest struct {
	Status domain.MessageStatus `json:"status"`
}

// AnalyzeRequest payload for the crisis preview endpoint.
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// CrisisResponse renders a classification.
type CrisisResponse struct {
	IsCrisis        bool               `json:"is_crisis"`
	Level           domain.CrisisLevel `json:"level"`
	Score           int                `json:"score"`
	MatchedKeywords []string           `json:"matched_keywords"`
	Categories      []string           `json:"categories"`
	Recommendation  string             `json:"recommendation"`
}

// MessageSummary is a queue row for counselors.
type MessageSummary struct {
	ID               string               `json:"id"`
	Category         domain.Category      `json:"category"`
	DeclaredUrgency  domain.Urgency       `json:"declared_urgency"`
	EffectiveUrgency domain.Urgency       `json:"effective_urgency"`
	Mood             domain.Mood          `json:"mood"`
	Status           domain.MessageStatus `json:"status"`
	CrisisDetected   bool                 `json:"crisis_detected"`
	CrisisLevel      domain.CrisisLevel   `json:"crisis_level"`
	ReplyCount       int                  `json:"reply_count"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// MessageDetail is the full counselor view of a record.
type MessageDetail struct {
	MessageSummary
	TrackingCode     string          `json:"tracking_code"`
	Body             string          `json:"body"`
	CrisisScore      int             `json:"crisis_score"`
	CrisisKeywords   []string        `json:"crisis_keywords"`
	CrisisCategories []string        `json:"crisis_categories"`
	Replies          []ReplyResponse `json:"replies"`
	CounselorNotes   string          `json:"counselor_notes"`
}
