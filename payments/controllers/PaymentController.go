package controllers

import (
	"errors"

	activity_services "property-marketplace-backend/activities/services"
	"property-marketplace-backend/payments/services"
	"property-marketplace-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentController struct {
	PaymentService *services.PaymentService
}

// ProcessPaymentController settles a PAYMENT_REQUIRED request. The contract
// is generated right after the payment commits.
func (pc *PaymentController) ProcessPaymentController(c *fiber.Ctx) error {
	payload, ok := c.Locals("user").(*token.Payload)
	if !ok || payload == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "User not authenticated",
		})
	}

	activityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid activity ID",
		})
	}

	var body struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request payload",
			"error":   err.Error(),
		})
	}
	if body.Amount.LessThanOrEqual(decimal.Zero) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "amount must be greater than zero",
		})
	}

	activity, err := pc.PaymentService.ProcessPayment(c.Context(), payload.UserID, activityID, body.Amount)
	if err != nil {
		switch {
		case errors.Is(err, activity_services.ErrInvalidStateTransition):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"message": "The request is not awaiting payment",
				"error":   err.Error(),
			})
		case errors.Is(err, activity_services.ErrUnauthorizedTransition):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "You are not allowed to pay for this request",
			})
		case errors.Is(err, activity_services.ErrActivityNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Request not found",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Internal server error",
			})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Payment recorded",
		"data":    activity,
	})
}
