package domain

import "time"

// MessageStatus enumerates lifecycle states for submitted messages.
type MessageStatus string

const (
	MessageStatusNew       MessageStatus = "new"
	MessageStatusInReview  MessageStatus = "in-review"
	MessageStatusResponded MessageStatus = "responded"
	MessageStatusResolved  MessageStatus = "resolved"
)

// Valid reports whether s is a known status.
func (s MessageStatus) Valid() bool {
	switch s {
	case MessageStatusNew, MessageStatusInReview, MessageStatusResponded, MessageStatusResolved:
		return true
	}
	return false
}

// Urgency is the triage ordinal declared by the submitter or forced by escalation.
type Urgency string

const (
	UrgencyLow    Urgency = "baja"
	UrgencyMedium Urgency = "media"
	UrgencyHigh   Urgency = "alta"
	UrgencyUrgent Urgency = "urgente"
)

// Rank returns the position of u on the ordinal scale, or -1 when unknown.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyLow:
		return 0
	case UrgencyMedium:
		return 1
	case UrgencyHigh:
		return 2
	case UrgencyUrgent:
		return 3
	}
	return -1
}

// Valid reports whether u is a known urgency.
func (u Urgency) Valid() bool {
	return u.Rank() >= 0
}

// Category groups messages by topic.
type Category string

const (
	CategoryAcademic      Category = "academico"
	CategoryFamily        Category = "familiar"
	CategoryRelationships Category = "relaciones"
	CategoryMentalHealth  Category = "salud-mental"
	CategoryBullying      Category = "acoso"
	CategoryOther         Category = "otro"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryAcademic, CategoryFamily, CategoryRelationships, CategoryMentalHealth, CategoryBullying, CategoryOther:
		return true
	}
	return false
}

// Mood is the self-reported mood tag attached to a submission.
type Mood string

const (
	MoodVeryBad  Mood = "muy-mal"
	MoodBad      Mood = "mal"
	MoodNeutral  Mood = "regular"
	MoodGood     Mood = "bien"
	MoodVeryGood Mood = "muy-bien"
)

// Valid reports whether m is a known mood.
func (m Mood) Valid() bool {
	switch m {
	case MoodVeryBad, MoodBad, MoodNeutral, MoodGood, MoodVeryGood:
		return true
	}
	return false
}

// ReplyAuthor indicates who wrote a reply.
type ReplyAuthor string

const (
	ReplyAuthorCounselor ReplyAuthor = "counselor"
	ReplyAuthorSubmitter ReplyAuthor = "submitter"
)

// Reply is one entry of a message thread.
type Reply struct {
	Author    ReplyAuthor `json:"author"`
	Text      string      `json:"text"`
	Timestamp time.Time   `json:"timestamp"`
}

// MessageRecord is the aggregate for an anonymous submission and its thread.
type MessageRecord struct {
	ID               string        `json:"id"`
	TrackingCode     string        `json:"trackingCode"`
	Category         Category      `json:"category"`
	DeclaredUrgency  Urgency       `json:"declaredUrgency"`
	EffectiveUrgency Urgency       `json:"effectiveUrgency"`
	Mood             Mood          `json:"moodTag"`
	Body             string        `json:"bodyText"`
	Status           MessageStatus `json:"status"`
	CrisisDetected   bool          `json:"crisisDetected"`
	CrisisLevel      CrisisLevel   `json:"crisisLevel"`
	CrisisScore      int           `json:"crisisScore"`
	CrisisKeywords   []string      `json:"crisisKeywords"`
	CrisisCategories []string      `json:"crisisCategories"`
	Replies          []Reply       `json:"replies"`
	CounselorNotes   string        `json:"counselorNotes"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// Normalize replaces nil slices with empty ones so the record serializes
// with [] rather than null.
func (m *MessageRecord) Normalize() {
	if m.CrisisKeywords == nil {
		m.CrisisKeywords = []string{}
	}
	if m.CrisisCategories == nil {
		m.CrisisCategories = []string{}
	}
	if m.Replies == nil {
		m.Replies = []Reply{}
	}
}
