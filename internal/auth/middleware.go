package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/peer-support/internal/domain"
	"github.com/spec-kit/peer-support/internal/repository"
	apperrors "github.com/spec-kit/peer-support/pkg/util/errorutil"
)

const principalKey = "auth_principal"

type principalCtxKey struct{}

// Principal is the authenticated counselor behind a request.
type Principal struct {
	Counselor *domain.Counselor
	Claims    *Claims
}

// AuthMiddleware resolves bearer tokens to active counselors.
type AuthMiddleware struct {
	tokens     *TokenManager
	counselors repository.CounselorRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, counselors repository.CounselorRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, counselors: counselors}
}

// Handle rejects the request unless it carries a valid token for an active
// counselor. The counselor is re-read on every request so deactivation and
// role changes apply before the token expires.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw, err := bearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}

	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	counselor, err := m.counselors.GetByID(c.UserContext(), claims.CounselorID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewUnauthorized("counselor not found")
	case err != nil:
		return apperrors.MapError(err)
	case !counselor.Active:
		return apperrors.NewForbidden("counselor inactive")
	}

	principal := &Principal{Counselor: counselor, Claims: claims}
	c.Locals(principalKey, principal)
	c.SetUserContext(context.WithValue(c.UserContext(), principalCtxKey{}, principal))
	return c.Next()
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", apperrors.NewUnauthorized("missing authorization header")
	}
	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", apperrors.NewUnauthorized("invalid authorization header")
	}
	return token, nil
}

// PrincipalFromContext returns the principal stored by Handle.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	principal, ok := c.Locals(principalKey).(*Principal)
	return principal, ok && principal != nil
}

// PrincipalFrom returns the principal carried by a request's user context,
// for code below the handler layer.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(principalCtxKey{}).(*Principal)
	return principal, ok && principal != nil
}
