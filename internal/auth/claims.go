package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-service/internal/domain"
)

const identityKey = "auth_identity"

// Claims are the identity facts carried by a token. Email is informational only;
// authorization decisions use SubjectID and Role.
type Claims struct {
	SubjectID string
	Email     string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity is the verified caller attached to a single request.
type Identity struct {
	Claims
}

// HasRole reports whether the identity holds one of the given roles.
func (i *Identity) HasRole(roles ...domain.Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

func setIdentity(c *fiber.Ctx, identity *Identity) {
	c.Locals(identityKey, identity)
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	identity, ok := c.Locals(identityKey).(*Identity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}
