// Package http contains the fiber handlers for the REST API.
package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/asidlare/todos/core/domain"
	"github.com/asidlare/todos/pkg/apperr"
)

func actorFromCtx(c *fiber.Ctx) domain.Actor {
	actor := domain.Actor{}
	if userID, ok := c.Locals("user_id").(uuid.UUID); ok {
		actor.UserID = userID
	}
	if email, ok := c.Locals("user_email").(string); ok {
		actor.Email = email
	}
	return actor
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.InvalidInput(name, "must be a UUID")
	}
	return id, nil
}

// domainError maps the core's sentinel errors onto the transport error
// envelope. Anything unmapped surfaces as an internal error.
func domainError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperr.NotFound("resource")
	case errors.Is(err, domain.ErrNoAccess):
		return apperr.Forbidden("no access to todolist")
	case errors.Is(err, domain.ErrForbidden):
		return apperr.Forbidden("operation not permitted for role")
	case errors.Is(err, domain.ErrLimitExceeded):
		return apperr.LimitExceeded("")
	case errors.Is(err, domain.ErrDescendantsNotDone):
		return apperr.StructuralConflict("descendants must be done first")
	case errors.Is(err, domain.ErrNotPossible):
		return apperr.StructuralConflict("reparent not possible")
	case errors.Is(err, domain.ErrValidation):
		return apperr.ValidationFailed(err.Error())
	default:
		return apperr.InternalWithError(err)
	}
}
