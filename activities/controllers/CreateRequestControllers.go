package controllers

import (
	"property-marketplace-backend/activities/services"
	"property-marketplace-backend/config"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CreateVisitRequestController creates a PENDING visit request for the
// authenticated client.
func (ac *ActivityController) CreateVisitRequestController(c *fiber.Ctx) error {
	payload, err := authPayload(c)
	if payload == nil {
		return err
	}

	var input services.CreateVisitInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request payload",
			"error":   err.Error(),
		})
	}

	activity, err := ac.Transitions.CreateVisitRequest(c.Context(), payload.UserID, input)
	if err != nil {
		config.Logger.Warn("Visit request rejected",
			zap.String("clientID", payload.UserID.String()),
			zap.Error(err),
		)
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Visit request submitted",
		"data":    activity,
	})
}

// CreateReservationRequestController creates a PENDING rental reservation.
func (ac *ActivityController) CreateReservationRequestController(c *fiber.Ctx) error {
	payload, err := authPayload(c)
	if payload == nil {
		return err
	}

	var input services.CreateReservationInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request payload",
			"error":   err.Error(),
		})
	}

	activity, err := ac.Transitions.CreateReservationRequest(c.Context(), payload.UserID, input)
	if err != nil {
		config.Logger.Warn("Reservation request rejected",
			zap.String("clientID", payload.UserID.String()),
			zap.Error(err),
		)
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Reservation request submitted",
		"data":    activity,
	})
}

// CreateInterestRequestController registers purchase interest in a sale
// listing.
func (ac *ActivityController) CreateInterestRequestController(c *fiber.Ctx) error {
	payload, err := authPayload(c)
	if payload == nil {
		return err
	}

	var input services.CreateInterestInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request payload",
			"error":   err.Error(),
		})
	}

	activity, err := ac.Transitions.CreateInterestRequest(c.Context(), payload.UserID, input)
	if err != nil {
		config.Logger.Warn("Interest request rejected",
			zap.String("clientID", payload.UserID.String()),
			zap.Error(err),
		)
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Purchase interest submitted",
		"data":    activity,
	})
}
