package controllers

import (
	"errors"

	activity_services "property-marketplace-backend/activities/services"
	"property-marketplace-backend/config"
	"property-marketplace-backend/documents/services"
	"property-marketplace-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DocumentController struct {
	DocumentService *services.DocumentService
}

// UploadActivityDocumentController accepts one multipart file for an accepted
// reservation and flags the activity as awaiting owner review.
func (dc *DocumentController) UploadActivityDocumentController(c *fiber.Ctx) error {
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

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "A file is required",
			"error":   err.Error(),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		config.Logger.Error("Failed to open uploaded file", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Could not read uploaded file",
		})
	}
	defer file.Close()

	document, err := dc.DocumentService.UploadActivityDocument(c.Context(), payload.UserID, activityID, file, fileHeader.Filename)
	if err != nil {
		return respondDocumentError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Document uploaded, awaiting review",
		"data":    document,
	})
}

// ReviewDocumentsController records the owner's decision on the submitted
// documents.
func (dc *DocumentController) ReviewDocumentsController(c *fiber.Ctx) error {
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

	activity, err := dc.DocumentService.ReviewDocuments(c.Context(), payload.UserID, activityID, body.Approved, body.Reason)
	if err != nil {
		return respondDocumentError(c, err)
	}

	message := "Documents approved, payment required"
	if !body.Approved {
		message = "Documents rejected"
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    activity,
	})
}

func respondDocumentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, activity_services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request",
			"error":   err.Error(),
		})
	case errors.Is(err, activity_services.ErrInvalidStateTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "The request is not in a state that allows this action",
			"error":   err.Error(),
		})
	case errors.Is(err, activity_services.ErrUnauthorizedTransition):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You are not allowed to perform this action",
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
