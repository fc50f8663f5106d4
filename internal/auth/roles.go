package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-service/internal/domain"
	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

// MsgNoIdentity signals a gate running before the IdentityGate.
const MsgNoIdentity = "Unauthorized - No user found in request"

// RequireRole ensures the caller holds one of the allowed roles. With no roles any
// authenticated caller passes.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized(MsgNoIdentity)
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[identity.Role]; !exists {
			return apperrors.NewForbidden(apperrors.MsgForbidden)
		}
		return c.Next()
	}
}

// RequireSelf ensures the route parameter names the caller's own account.
// Role does not bypass this check.
func RequireSelf(param, action string) fiber.Handler {
	msg := fmt.Sprintf("You are not authorized to %s this user", action)

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized(MsgNoIdentity)
		}
		if c.Params(param) != identity.SubjectID {
			return apperrors.NewForbidden(msg)
		}
		return c.Next()
	}
}
