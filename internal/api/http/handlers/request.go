package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-service/internal/api/dto"
	"github.com/spec-kit/task-service/internal/auth"
	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

// MsgInvalidPayload is returned for bodies that cannot be decoded.
const MsgInvalidPayload = "Invalid request body"

// parseBody decodes a JSON body. An empty body leaves out untouched so field
// validation reports what is missing.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		if errors.Is(err, dto.ErrInvalidDueDate) {
			return apperrors.NewValidationError(dto.ErrInvalidDueDate.Error())
		}
		return apperrors.NewValidationError(MsgInvalidPayload)
	}
	return nil
}

func actorID(c *fiber.Ctx) string {
	if identity, ok := auth.IdentityFromContext(c); ok {
		return identity.SubjectID
	}
	return ""
}
