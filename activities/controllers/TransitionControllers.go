package controllers

import (
	"property-marketplace-backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func parseActivityID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid activity ID",
		})
	}
	return id, nil
}

// AcceptActivityController lets the property owner accept a pending request.
// Re-invocations are acknowledged without repeating side effects.
func (ac *ActivityController) AcceptActivityController(c *fiber.Ctx) error {
	payload, err := authPayload(c)
	if payload == nil {
		return err
	}
	activityID, err := parseActivityID(c)
	if activityID == uuid.Nil {
		return err
	}

	result, err := ac.Transitions.AcceptActivity(c.Context(), payload.UserID, activityID)
	if err != nil {
		config.Logger.Warn("Accept rejected",
			zap.String("activityID", activityID.String()),
			zap.String("actorID", payload.UserID.String()),
			zap.Error(err),
		)
		return respondServiceError(c, err)
	}

	message := "Request accepted"
	if result.AlreadyApplied {
		message = "Request was already accepted"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    result,
	})
}

// RefuseActivityController lets the property owner refuse a pending request,
// with an optional reason surfaced to the client.
func (ac *ActivityController) RefuseActivityController(c *fiber.Ctx) error {
	payload, err := authPayload(c)
	if payload == nil {
		return err
	}
	activityID, err := parseActivityID(c)
	if activityID == uuid.Nil {
		return err
	}

	var body struct {
		Reason *string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request payload",
			"error":   err.Error(),
		})
	}

	result, err := ac.Transitions.RefuseActivity(c.Context(), payload.UserID, activityID, body.Reason)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Request refused",
		"data":    result,
	})
}

// CancelActivityController lets the requesting client withdraw an active
// request.
func (ac *ActivityController) CancelActivityController(c *fiber.Ctx) error {
	payload, err := authPayload(c)
	if payload == nil {
		return err
	}
	activityID, err := parseActivityID(c)
	if activityID == uuid.Nil {
		return err
	}

	result, err := ac.Transitions.CancelActivity(c.Context(), payload.UserID, activityID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Request cancelled",
		"data":    result,
	})
}
