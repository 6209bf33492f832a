package controllers

import (
	activity_repositories "property-marketplace-backend/activities/repositories"
	"property-marketplace-backend/contracts/services"
	"property-marketplace-backend/db/models"
	"property-marketplace-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ContractController struct {
	ContractService *services.ContractService
	ActivityRepo    activity_repositories.ActivityRepository
}

// GetActivityContractController returns the generated contract for an
// activity. Participants and admins only.
func (cc *ContractController) GetActivityContractController(c *fiber.Ctx) error {
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

	activity, err := cc.ActivityRepo.GetActivityByID(activityID)
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"message": "A backing service is unavailable, please retry",
		})
	}
	if activity == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Request not found",
		})
	}

	isParticipant := activity.ClientID == payload.UserID || activity.Property.OwnerID == payload.UserID
	if !isParticipant && payload.Role != models.AdminRole {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You are not allowed to view this contract",
		})
	}

	contract, err := cc.ContractService.GetContractForActivity(activityID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}
	if contract == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "No contract has been generated for this request yet",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Contract retrieved",
		"data":    contract,
	})
}
