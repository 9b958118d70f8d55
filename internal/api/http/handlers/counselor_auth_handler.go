package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/peer-support/internal/api/dto"
	"github.com/spec-kit/peer-support/internal/domain"
	"github.com/spec-kit/peer-support/internal/service"
	apperrors "github.com/spec-kit/peer-support/pkg/util/errorutil"
)

// CounselorAuthHandler exposes login and account provisioning.
type CounselorAuthHandler struct {
	auth *service.AuthService
}

// NewCounselorAuthHandler constructs handler.
func NewCounselorAuthHandler(authService *service.AuthService) *CounselorAuthHandler {
	return &CounselorAuthHandler{auth: authService}
}

// Login handles POST /auth/counselors/login.
func (h *CounselorAuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	counselor, token, exp, err := h.auth.LoginCounselor(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"counselor": counselorResponse(counselor),
			"auth":      dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Create handles POST /counselor/counselors (admin only).
func (h *CounselorAuthHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCounselorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Role == "" {
		req.Role = domain.CounselorRoleCounselor
	}
	counselor, err := h.auth.CreateCounselor(c.UserContext(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": counselorResponse(counselor)})
}

func counselorResponse(counselor *domain.Counselor) dto.CounselorResponse {
	return dto.CounselorResponse{
		ID:        counselor.ID,
		Name:      counselor.Name,
		Email:     counselor.Email,
		Role:      counselor.Role,
		Active:    counselor.Active,
		CreatedAt: counselor.CreatedAt,
	}
}
