package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/peer-support/internal/api/dto"
	"github.com/spec-kit/peer-support/internal/auth"
	"github.com/spec-kit/peer-support/internal/domain"
	"github.com/spec-kit/peer-support/internal/observability"
	"github.com/spec-kit/peer-support/internal/service"
	apperrors "github.com/spec-kit/peer-support/pkg/util/errorutil"
)

// CounselorHandler exposes the counselor triage endpoints.
type CounselorHandler struct {
	messages *service.MessageService
	metrics  *observability.Metrics
}

// NewCounselorHandler constructs handler.
func NewCounselorHandler(messageService *service.MessageService, metrics *observability.Metrics) *CounselorHandler {
	return &CounselorHandler{messages: messageService, metrics: metrics}
}

// ListMessages GET /counselor/messages.
func (h *CounselorHandler) ListMessages(c *fiber.Ctx) error {
	filter := parseQueueQuery(c)
	records, err := h.messages.ListQueue(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.MessageSummary, 0, len(records))
	for i := range records {
		items = append(items, messageSummary(&records[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetMessage GET /counselor/messages/:id.
func (h *CounselorHandler) GetMessage(c *fiber.Ctx) error {
	record, err := h.messages.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": messageDetail(record)})
}

// Reply POST /counselor/messages/:id/replies.
func (h *CounselorHandler) Reply(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("counselor required")
	}
	var req dto.CounselorReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	record, err := h.messages.AppendCounselorReply(c.UserContext(), principal.Counselor.ID, c.Params("id"), req.Text, req.Notes)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": messageDetail(record)})
}

// UpdateStatus PATCH /counselor/messages/:id/status.
func (h *CounselorHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("counselor required")
	}
	var req dto.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	record, err := h.messages.SetStatus(c.UserContext(), principal.Counselor.ID, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": messageDetail(record)})
}

// Stats GET /counselor/stats.
func (h *CounselorHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.messages.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// Analyze POST /counselor/crisis/analyze previews a classification without
// storing anything.
func (h *CounselorHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result := h.messages.Analyze(req.Text)
	return c.JSON(fiber.Map{"data": dto.CrisisResponse{
		IsCrisis:        result.IsCrisis,
		Level:           result.Level,
		Score:           result.Score,
		MatchedKeywords: result.MatchedKeywords,
		Categories:      result.Categories,
		Recommendation:  result.Recommendation,
	}})
}

// Metrics GET /counselor/metrics.
func (h *CounselorHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Snapshot()})
}

func parseQueueQuery(c *fiber.Ctx) service.QueueFilter {
	filter := service.QueueFilter{}
	for _, s := range splitQueryList(c.Query("status")) {
		filter.Statuses = append(filter.Statuses, domain.MessageStatus(s))
	}
	for _, u := range splitQueryList(c.Query("urgency")) {
		filter.Urgencies = append(filter.Urgencies, domain.Urgency(u))
	}
	filter.CrisisOnly = c.QueryBool("crisis", false)
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func messageSummary(record *domain.MessageRecord) dto.MessageSummary {
	return dto.MessageSummary{
		ID:               record.ID,
		Category:         record.Category,
		DeclaredUrgency:  record.DeclaredUrgency,
		EffectiveUrgency: record.EffectiveUrgency,
		Mood:             record.Mood,
		Status:           record.Status,
		CrisisDetected:   record.CrisisDetected,
		CrisisLevel:      record.CrisisLevel,
		ReplyCount:       len(record.Replies),
		CreatedAt:        record.CreatedAt,
		UpdatedAt:        record.UpdatedAt,
	}
}

func messageDetail(record *domain.MessageRecord) dto.MessageDetail {
	return dto.MessageDetail{
		MessageSummary:   messageSummary(record),
		TrackingCode:     record.TrackingCode,
		Body:             record.Body,
		CrisisScore:      record.CrisisScore,
		CrisisKeywords:   record.CrisisKeywords,
		CrisisCategories: record.CrisisCategories,
		Replies:          replyResponses(record.Replies),
		CounselorNotes:   record.CounselorNotes,
	}
}
