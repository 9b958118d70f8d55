package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/peer-support/internal/crisis"
	"github.com/spec-kit/peer-support/internal/domain"
	"github.com/spec-kit/peer-support/internal/events"
	"github.com/spec-kit/peer-support/internal/observability"
	"github.com/spec-kit/peer-support/internal/repository"
	"github.com/spec-kit/peer-support/internal/trackingcode"
	apperrors "github.com/spec-kit/peer-support/pkg/util/errorutil"
)

const (
	maxBodyLength  = 5000
	maxReplyLength = 5000
)

// MessageService owns the lifecycle of message records. Every mutation
// loads the full collection, changes it in memory and saves it back; the
// mutex keeps those cycles from interleaving inside this process.
type MessageService struct {
	mu         sync.Mutex
	store      repository.MessageStore
	classifier *crisis.Classifier
	escalator  *crisis.Escalator
	codes      *trackingcode.Generator
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// MessageDependencies bundles collaborators for the message service.
type MessageDependencies struct {
	Store      repository.MessageStore
	Classifier *crisis.Classifier
	Escalator  *crisis.Escalator
	Codes      *trackingcode.Generator
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Clock      func() time.Time
}

// SubmissionInput describes an anonymous submission.
type SubmissionInput struct {
	Category        domain.Category
	DeclaredUrgency domain.Urgency
	Body            string
	Mood            domain.Mood
}

// QueueFilter narrows the counselor queue.
type QueueFilter struct {
	Statuses   []domain.MessageStatus
	Urgencies  []domain.Urgency
	CrisisOnly bool
	Limit      int
	Offset     int
}

// Stats summarizes the collection for the counselor dashboard.
type Stats struct {
	Total         int                          `json:"total"`
	CrisisCount   int                          `json:"crisis_count"`
	Escalated     int                          `json:"escalated"`
	ByStatus      map[domain.MessageStatus]int `json:"by_status"`
	ByCrisisLevel map[domain.CrisisLevel]int   `json:"by_crisis_level"`
	ByMood        map[domain.Mood]int          `json:"by_mood"`
	ByCategory    map[domain.Category]int      `json:"by_category"`
}

// NewMessageService constructs the service.
func NewMessageService(deps MessageDependencies) *MessageService {
	s := &MessageService{
		store:      deps.Store,
		classifier: deps.Classifier,
		escalator:  deps.Escalator,
		codes:      deps.Codes,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        deps.Clock,
	}
	if s.classifier == nil {
		s.classifier = crisis.NewClassifier()
	}
	if s.escalator == nil {
		s.escalator = crisis.NewEscalator(nil)
	}
	if s.codes == nil {
		s.codes = trackingcode.NewGenerator()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// Analyze runs the classifier without creating a record.
func (s *MessageService) Analyze(text string) domain.Classification {
	return s.classifier.Analyze(text)
}

// Create validates a submission, classifies its body, escalates urgency and
// stores the new record at the front of the collection.
func (s *MessageService) Create(ctx context.Context, input SubmissionInput) (*domain.MessageRecord, error) {
	input.Body = strings.TrimSpace(input.Body)
	if err := validateSubmission(input); err != nil {
		return nil, err
	}

	record, classification, err := s.insert(ctx, input)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordSubmission(string(record.CrisisLevel), record.EffectiveUrgency != input.DeclaredUrgency)
	s.logger.Info("message created",
		zap.String("message_id", record.ID),
		zap.String("category", string(record.Category)),
		zap.String("declared_urgency", string(record.DeclaredUrgency)),
		zap.String("effective_urgency", string(record.EffectiveUrgency)),
	)
	s.publishEvent(ctx, events.Event{
		Type:      events.EventMessageCreated,
		MessageID: record.ID,
		Actor:     submitterActor(),
		Payload: events.MessageCreatedPayload{
			Category:         record.Category,
			DeclaredUrgency:  record.DeclaredUrgency,
			EffectiveUrgency: record.EffectiveUrgency,
			Mood:             record.Mood,
			CrisisLevel:      record.CrisisLevel,
		},
	})
	if classification.IsCrisis {
		s.logger.Warn("crisis detected",
			zap.String("message_id", record.ID),
			zap.String("level", string(classification.Level)),
			zap.Int("score", classification.Score),
			zap.Strings("categories", classification.Categories),
		)
		s.publishEvent(ctx, events.Event{
			Type:      events.EventCrisisDetected,
			MessageID: record.ID,
			Actor:     submitterActor(),
			Payload: events.CrisisDetectedPayload{
				Level:            classification.Level,
				Score:            classification.Score,
				Categories:       record.CrisisCategories,
				EffectiveUrgency: record.EffectiveUrgency,
				Recommendation:   classification.Recommendation,
			},
		})
	}
	return &record, nil
}

// insert builds the record and prepends it to the stored collection while
// holding the writer lock.
func (s *MessageService) insert(ctx context.Context, input SubmissionInput) (domain.MessageRecord, domain.Classification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return domain.MessageRecord{}, domain.Classification{}, apperrors.NewInternalError(err)
	}

	taken := make(map[string]struct{}, len(records))
	for i := range records {
		taken[records[i].TrackingCode] = struct{}{}
	}
	code, err := s.codes.Generate(ctx, func(_ context.Context, candidate string) (bool, error) {
		_, exists := taken[candidate]
		return exists, nil
	})
	if err != nil {
		return domain.MessageRecord{}, domain.Classification{}, apperrors.NewInternalError(err)
	}

	classification := s.classifier.Analyze(input.Body)
	now := s.now()
	record := domain.MessageRecord{
		ID:               uuid.NewString(),
		TrackingCode:     code,
		Category:         input.Category,
		DeclaredUrgency:  input.DeclaredUrgency,
		EffectiveUrgency: s.escalator.Adjust(input.DeclaredUrgency, classification),
		Mood:             input.Mood,
		Body:             input.Body,
		Status:           domain.MessageStatusNew,
		CrisisDetected:   classification.IsCrisis,
		CrisisLevel:      classification.Level,
		CrisisScore:      classification.Score,
		CrisisKeywords:   append([]string{}, classification.MatchedKeywords...),
		CrisisCategories: append([]string{}, classification.Categories...),
		Replies:          []domain.Reply{},
		CounselorNotes:   "",
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	records = append([]domain.MessageRecord{record}, records...)
	if err := s.store.SaveAll(ctx, records); err != nil {
		return domain.MessageRecord{}, domain.Classification{}, apperrors.NewInternalError(err)
	}
	return record, classification, nil
}

// FindByTrackingCode looks a record up by its tracking code. A miss returns
// found=false and no error.
func (s *MessageService) FindByTrackingCode(ctx context.Context, code string) (*domain.MessageRecord, bool, error) {
	code = trackingcode.Normalize(code)
	if !trackingcode.Valid(code) {
		return nil, false, nil
	}
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, false, apperrors.NewInternalError(err)
	}
	idx := indexByTrackingCode(records, code)
	if idx < 0 {
		return nil, false, nil
	}
	return &records[idx], true, nil
}

// Get returns a record by id.
func (s *MessageService) Get(ctx context.Context, id string) (*domain.MessageRecord, error) {
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	idx := indexByID(records, id)
	if idx < 0 {
		return nil, apperrors.NewNotFound("message", map[string]any{"message_id": id})
	}
	return &records[idx], nil
}

// AppendCounselorReply appends a counselor reply and replaces the notes.
// Records in new or in-review move to responded; others keep their status.
func (s *MessageService) AppendCounselorReply(ctx context.Context, counselorID, id, text, notes string) (*domain.MessageRecord, error) {
	text = strings.TrimSpace(text)
	if err := validateReply(text); err != nil {
		return nil, err
	}

	var oldStatus domain.MessageStatus
	record, err := s.mutate(ctx, func(records []domain.MessageRecord) (int, error) {
		idx := indexByID(records, id)
		if idx < 0 {
			return idx, apperrors.NewNotFound("message", map[string]any{"message_id": id})
		}
		rec := &records[idx]
		now := s.now()
		rec.Replies = append(rec.Replies, domain.Reply{Author: domain.ReplyAuthorCounselor, Text: text, Timestamp: now})
		rec.CounselorNotes = notes
		oldStatus = rec.Status
		if rec.Status == domain.MessageStatusNew || rec.Status == domain.MessageStatusInReview {
			rec.Status = domain.MessageStatusResponded
		}
		rec.UpdatedAt = now
		return idx, nil
	})
	if err != nil {
		return nil, err
	}

	actor := counselorActor(counselorID)
	s.publishReplyAdded(ctx, record, actor)
	if oldStatus != record.Status {
		s.publishStatusChanged(ctx, record, actor, oldStatus)
	}
	return record, nil
}

// AppendSubmitterReply appends a submitter reply and sets the status to
// responded, reopening resolved records.
func (s *MessageService) AppendSubmitterReply(ctx context.Context, code, text string) (*domain.MessageRecord, error) {
	code = trackingcode.Normalize(code)
	text = strings.TrimSpace(text)
	if err := validateReply(text); err != nil {
		return nil, err
	}

	var oldStatus domain.MessageStatus
	record, err := s.mutate(ctx, func(records []domain.MessageRecord) (int, error) {
		idx := indexByTrackingCode(records, code)
		if idx < 0 {
			return idx, apperrors.NewNotFound("message", nil)
		}
		rec := &records[idx]
		now := s.now()
		rec.Replies = append(rec.Replies, domain.Reply{Author: domain.ReplyAuthorSubmitter, Text: text, Timestamp: now})
		oldStatus = rec.Status
		rec.Status = domain.MessageStatusResponded
		rec.UpdatedAt = now
		return idx, nil
	})
	if err != nil {
		return nil, err
	}

	actor := submitterActor()
	s.publishReplyAdded(ctx, record, actor)
	if oldStatus != record.Status {
		s.publishStatusChanged(ctx, record, actor, oldStatus)
	}
	return record, nil
}

// SetStatus moves a record to any known status.
func (s *MessageService) SetStatus(ctx context.Context, counselorID, id string, status domain.MessageStatus) (*domain.MessageRecord, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}

	var oldStatus domain.MessageStatus
	record, err := s.mutate(ctx, func(records []domain.MessageRecord) (int, error) {
		idx := indexByID(records, id)
		if idx < 0 {
			return idx, apperrors.NewNotFound("message", map[string]any{"message_id": id})
		}
		rec := &records[idx]
		if !isValidTransition(rec.Status, status) {
			return idx, apperrors.NewConflict("invalid status transition", map[string]any{"from": rec.Status, "to": status})
		}
		oldStatus = rec.Status
		rec.Status = status
		rec.UpdatedAt = s.now()
		return idx, nil
	})
	if err != nil {
		return nil, err
	}
	if oldStatus != status {
		s.publishStatusChanged(ctx, record, counselorActor(counselorID), oldStatus)
	}
	return record, nil
}

// ListQueue returns records for triage: highest effective urgency first,
// newest first within the same urgency.
func (s *MessageService) ListQueue(ctx context.Context, filter QueueFilter) ([]domain.MessageRecord, error) {
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	matched := make([]domain.MessageRecord, 0, len(records))
	for _, rec := range records {
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, rec.Status) {
			continue
		}
		if len(filter.Urgencies) > 0 && !containsUrgency(filter.Urgencies, rec.EffectiveUrgency) {
			continue
		}
		if filter.CrisisOnly && !rec.CrisisDetected {
			continue
		}
		matched = append(matched, rec)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		ri, rj := matched[i].EffectiveUrgency.Rank(), matched[j].EffectiveUrgency.Rank()
		if ri != rj {
			return ri > rj
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []domain.MessageRecord{}, nil
	}
	matched = matched[offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// Stats aggregates counts over the whole collection.
func (s *MessageService) Stats(ctx context.Context) (Stats, error) {
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return Stats{}, apperrors.NewInternalError(err)
	}
	stats := Stats{
		Total:         len(records),
		ByStatus:      map[domain.MessageStatus]int{},
		ByCrisisLevel: map[domain.CrisisLevel]int{},
		ByMood:        map[domain.Mood]int{},
		ByCategory:    map[domain.Category]int{},
	}
	for _, rec := range records {
		stats.ByStatus[rec.Status]++
		stats.ByCrisisLevel[rec.CrisisLevel]++
		stats.ByMood[rec.Mood]++
		stats.ByCategory[rec.Category]++
		if rec.CrisisDetected {
			stats.CrisisCount++
		}
		if rec.EffectiveUrgency != rec.DeclaredUrgency {
			stats.Escalated++
		}
	}
	return stats, nil
}

// mutate runs one load-modify-save cycle. fn returns the index of the
// record it changed.
func (s *MessageService) mutate(ctx context.Context, fn func([]domain.MessageRecord) (int, error)) (*domain.MessageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	idx, err := fn(records)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveAll(ctx, records); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	record := records[idx]
	return &record, nil
}

func validateSubmission(input SubmissionInput) error {
	details := map[string]any{}
	if !input.Category.Valid() {
		details["category"] = "required"
	}
	if !input.DeclaredUrgency.Valid() {
		details["urgency"] = "required"
	}
	if !input.Mood.Valid() {
		details["mood"] = "required"
	}
	if input.Body == "" {
		details["body"] = "required"
	} else if utf8.RuneCountInString(input.Body) > maxBodyLength {
		details["body"] = "too long"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid submission", details)
	}
	return nil
}

func validateReply(text string) error {
	if text == "" {
		return apperrors.NewValidationError("reply text required", map[string]any{"text": "required"})
	}
	if utf8.RuneCountInString(text) > maxReplyLength {
		return apperrors.NewValidationError("reply text too long", map[string]any{"text": "too long"})
	}
	return nil
}

// isValidTransition accepts any move between known statuses. Tightening
// the lifecycle means restricting this function.
func isValidTransition(_, next domain.MessageStatus) bool {
	return next.Valid()
}

func indexByID(records []domain.MessageRecord, id string) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}

func indexByTrackingCode(records []domain.MessageRecord, code string) int {
	for i := range records {
		if records[i].TrackingCode == code {
			return i
		}
	}
	return -1
}

func containsStatus(list []domain.MessageStatus, v domain.MessageStatus) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsUrgency(list []domain.Urgency, v domain.Urgency) bool {
	for _, u := range list {
		if u == v {
			return true
		}
	}
	return false
}

func (s *MessageService) publishReplyAdded(ctx context.Context, record *domain.MessageRecord, actor events.Actor) {
	last := record.Replies[len(record.Replies)-1]
	s.publishEvent(ctx, events.Event{
		Type:      events.EventMessageReplyAdded,
		MessageID: record.ID,
		Actor:     actor,
		Payload: events.MessageReplyAddedPayload{
			Author:      last.Author,
			ReplyCount:  len(record.Replies),
			BodyPreview: stringPreview(last.Text, 120),
		},
	})
}

func (s *MessageService) publishStatusChanged(ctx context.Context, record *domain.MessageRecord, actor events.Actor, oldStatus domain.MessageStatus) {
	s.publishEvent(ctx, events.Event{
		Type:      events.EventMessageStatusChanged,
		MessageID: record.ID,
		Actor:     actor,
		Payload: events.MessageStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: record.Status,
		},
	})
}

func (s *MessageService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed",
			zap.String("event_type", string(event.Type)),
			zap.String("message_id", event.MessageID),
			zap.Error(err),
		)
	}
}

func submitterActor() events.Actor {
	return events.Actor{Type: domain.ReplyAuthorSubmitter}
}

func counselorActor(counselorID string) events.Actor {
	actor := events.Actor{Type: domain.ReplyAuthorCounselor}
	if counselorID != "" {
		actor.CounselorID = &counselorID
	}
	return actor
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if utf8.RuneCountInString(body) <= max {
		return body
	}
	runes := []rune(body)
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
