package controllers

import (
	"property-marketplace-backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmitVerificationController lets the buyer hand a paid sale over to the
// platform for administrative verification.
func (ac *ActivityController) SubmitVerificationController(c *fiber.Ctx) error {
	payload, err := authPayload(c)
	if payload == nil {
		return err
	}
	activityID, err := parseActivityID(c)
	if activityID == uuid.Nil {
		return err
	}

	result, err := ac.Transitions.SubmitForAdminVerification(c.Context(), payload.UserID, activityID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Submitted for verification",
		"data":    result,
	})
}

// ReviewVerificationController records the admin decision on a sale. A
// rejection keeps the transaction at PAID so the buyer can address the
// findings and resubmit.
func (ac *ActivityController) ReviewVerificationController(c *fiber.Ctx) error {
	payload, err := authPayload(c)
	if payload == nil {
		return err
	}
	activityID, err := parseActivityID(c)
	if activityID == uuid.Nil {
		return err
	}

	var body struct {
		Approved bool    `json:"approved"`
		Reason   *string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request payload",
			"error":   err.Error(),
		})
	}

	result, err := ac.Transitions.AdminApproveVerification(c.Context(), payload.Role, activityID, body.Approved, body.Reason)
	if err != nil {
		config.Logger.Warn("Verification review rejected",
			zap.String("activityID", activityID.String()),
			zap.Error(err),
		)
		return respondServiceError(c, err)
	}

	message := "Verification approved"
	if !body.Approved {
		message = "Verification rejected"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    result,
	})
}

// RequestTitleDeedController lets the buyer of a verified sale request the
// title deed.
func (ac *ActivityController) RequestTitleDeedController(c *fiber.Ctx) error {
	payload, err := authPayload(c)
	if payload == nil {
		return err
	}
	activityID, err := parseActivityID(c)
	if activityID == uuid.Nil {
		return err
	}

	result, err := ac.Transitions.RequestTitleDeed(c.Context(), payload.UserID, activityID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Title deed requested",
		"data":    result,
	})
}

// DeliverTitleDeedController records deed delivery by an admin and completes
// the sale.
func (ac *ActivityController) DeliverTitleDeedController(c *fiber.Ctx) error {
	payload, err := authPayload(c)
	if payload == nil {
		return err
	}
	activityID, err := parseActivityID(c)
	if activityID == uuid.Nil {
		return err
	}

	result, err := ac.Transitions.DeliverTitleDeed(c.Context(), payload.Role, activityID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Title deed delivered, sale completed",
		"data":    result,
	})
}
