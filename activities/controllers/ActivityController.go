package controllers

import (
	"errors"

	"property-marketplace-backend/activities/repositories"
	"property-marketplace-backend/activities/services"
	"property-marketplace-backend/token"

	"github.com/gofiber/fiber/v2"
)

// ActivityController exposes the transaction workflow over HTTP. All
// mutations delegate to the transition service; the controller only parses,
// authenticates and maps errors to status codes.
type ActivityController struct {
	Transitions  *services.TransitionService
	Guard        *services.GuardService
	Progress     *services.ProgressService
	ActivityRepo repositories.ActivityRepository
	BookingRepo  repositories.BookingViewRepository
}

func authPayload(c *fiber.Ctx) (*token.Payload, error) {
	payload, ok := c.Locals("user").(*token.Payload)
	if !ok || payload == nil {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "User not authenticated",
		})
	}
	return payload, nil
}

// respondServiceError translates the service error taxonomy into HTTP
// responses. Unknown errors surface as 500 without leaking internals.
func respondServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrDuplicateRequest):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "A request of this type is already in progress",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "The request is not in a state that allows this action",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrUnauthorizedTransition):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You are not allowed to perform this action",
		})
	case errors.Is(err, services.ErrActivityNotFound), errors.Is(err, services.ErrPropertyNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Resource not found",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrRemoteUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"message": "A backing service is unavailable, please retry",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}
}
