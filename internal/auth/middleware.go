package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

const bearerPrefix = "Bearer "

// MsgNoToken is returned when the request carries no bearer credential.
const MsgNoToken = "No token provided, authorization denied"

// IdentityGate validates bearer tokens and attaches the caller's identity.
type IdentityGate struct {
	codec *Codec
}

// NewIdentityGate constructs the gate.
func NewIdentityGate(codec *Codec) *IdentityGate {
	return &IdentityGate{codec: codec}
}

// Handle enforces authentication for protected routes.
func (g *IdentityGate) Handle(c *fiber.Ctx) error {
	token, found := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), bearerPrefix)
	if !found {
		return apperrors.NewUnauthorized(MsgNoToken)
	}

	claims, err := g.codec.Verify(token)
	if err != nil {
		return err
	}

	setIdentity(c, &Identity{Claims: claims})
	return c.Next()
}
