package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/peer-support/internal/domain"
	apperrors "github.com/spec-kit/peer-support/pkg/util/errorutil"
)

// RequireCounselor rejects requests that reached a protected route without
// an authenticated counselor in the context.
func RequireCounselor() fiber.Handler {
	return RequireAtLeast(domain.CounselorRoleCounselor)
}

// RequireAtLeast admits counselors whose role ranks at or above min, so
// RequireAtLeast(SUPERVISOR) lets ADMIN through as well.
func RequireAtLeast(min domain.CounselorRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		counselor, err := currentCounselor(c)
		if err != nil {
			return err
		}
		if !counselor.Role.AtLeast(min) {
			return apperrors.NewForbidden("requires " + string(min) + " role")
		}
		return c.Next()
	}
}

// RequireRole admits only the listed roles, with no rank inheritance.
func RequireRole(allowed ...domain.CounselorRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		counselor, err := currentCounselor(c)
		if err != nil {
			return err
		}
		for _, role := range allowed {
			if counselor.Role == role {
				return c.Next()
			}
		}
		return apperrors.NewForbidden("insufficient role")
	}
}

func currentCounselor(c *fiber.Ctx) (*domain.Counselor, error) {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.Counselor == nil {
		return nil, apperrors.NewUnauthorized("counselor required")
	}
	return principal.Counselor, nil
}
