package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/peer-support/internal/api/dto"
	"github.com/spec-kit/peer-support/internal/crisis"
	"github.com/spec-kit/peer-support/internal/domain"
	"github.com/spec-kit/peer-support/internal/service"
	apperrors "github.com/spec-kit/peer-support/pkg/util/errorutil"
)

// MessagesHandler serves the anonymous submitter endpoints.
type MessagesHandler struct {
	service *service.MessageService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(messageService *service.MessageService) *MessagesHandler {
	return &MessagesHandler{service: messageService}
}

// Submit POST /messages.
func (h *MessagesHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	record, err := h.service.Create(c.UserContext(), service.SubmissionInput{
		Category:        req.Category,
		DeclaredUrgency: req.Urgency,
		Body:            req.Body,
		Mood:            req.Mood,
	})
	if err != nil {
		return err
	}

	resp := dto.SubmitMessageResponse{
		TrackingCode:     record.TrackingCode,
		EffectiveUrgency: record.EffectiveUrgency,
		CrisisDetected:   record.CrisisDetected,
		CreatedAt:        record.CreatedAt,
	}
	if record.CrisisDetected {
		resp.Recommendation = crisis.Recommendation(record.CrisisLevel)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": resp})
}

// Track GET /messages/track/:code.
func (h *MessagesHandler) Track(c *fiber.Ctx) error {
	record, found, err := h.service.FindByTrackingCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return err
	}
	if !found {
		return apperrors.NewNotFound("message", nil)
	}
	return c.JSON(fiber.Map{"data": trackingView(record)})
}

// Reply POST /messages/track/:code/replies.
func (h *MessagesHandler) Reply(c *fiber.Ctx) error {
	var req dto.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	record, err := h.service.AppendSubmitterReply(c.UserContext(), c.Params("code"), req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": trackingView(record)})
}

func trackingView(record *domain.MessageRecord) dto.TrackingView {
	return dto.TrackingView{
		TrackingCode: record.TrackingCode,
		Category:     record.Category,
		Status:       record.Status,
		Body:         record.Body,
		Replies:      replyResponses(record.Replies),
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

func replyResponses(replies []domain.Reply) []dto.ReplyResponse {
	resp := make([]dto.ReplyResponse, 0, len(replies))
	for _, r := range replies {
		resp = append(resp, dto.ReplyResponse{Author: r.Author, Text: r.Text, Timestamp: r.Timestamp})
	}
	return resp
}

func splitQueryList(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
