package controllers

import (
	"property-marketplace-backend/config"
	"property-marketplace-backend/db/models"
	"property-marketplace-backend/properties/repositories"
	"property-marketplace-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PropertyController struct {
	PropertyRepo repositories.PropertyRepository
	DB           *gorm.DB
}

// GetPropertyController returns one listing.
func (pc *PropertyController) GetPropertyController(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid property ID",
		})
	}

	property, err := pc.PropertyRepo.GetPropertyDetails(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Property not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Property retrieved",
		"data":    property,
	})
}

// GetOwnerPropertiesController lists the caller's own listings.
func (pc *PropertyController) GetOwnerPropertiesController(c *fiber.Ctx) error {
	payload, ok := c.Locals("user").(*token.Payload)
	if !ok || payload == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "User not authenticated",
		})
	}

	properties, err := pc.PropertyRepo.GetOwnerProperties(payload.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Properties retrieved",
		"data":    properties,
	})
}

// CreatePropertyController registers a new listing owned by the caller.
func (pc *PropertyController) CreatePropertyController(c *fiber.Ctx) error {
	payload, ok := c.Locals("user").(*token.Payload)
	if !ok || payload == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "User not authenticated",
		})
	}
	if payload.Role != models.OwnerRole && payload.Role != models.AdminRole {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Only owners can create listings",
		})
	}

	type CreatePropertyRequest struct {
		Title         string                    `json:"title"`
		Description   *string                   `json:"description"`
		Address       *string                   `json:"address"`
		City          *string                   `json:"city"`
		ActionType    models.PropertyActionType `json:"action_type"`
		Price         decimal.Decimal           `json:"price"`
		MonthlyRent   *decimal.Decimal          `json:"monthly_rent"`
		SalePrice     *decimal.Decimal          `json:"sale_price"`
		DepositAmount *decimal.Decimal          `json:"deposit_amount"`
	}

	var req CreatePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request payload",
			"error":   err.Error(),
		})
	}

	if req.Title == "" || (req.ActionType != models.RentActionType && req.ActionType != models.SaleActionType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "title and a valid action_type (rent or sale) are required",
		})
	}

	property := &models.Property{
		Title:         req.Title,
		Description:   req.Description,
		Address:       req.Address,
		City:          req.City,
		ActionType:    req.ActionType,
		Price:         req.Price,
		MonthlyRent:   req.MonthlyRent,
		SalePrice:     req.SalePrice,
		DepositAmount: req.DepositAmount,
		OwnerID:       payload.UserID,
		IsAvailable:   true,
	}

	if err := pc.DB.Create(property).Error; err != nil {
		config.Logger.Error("Failed to create property",
			zap.String("ownerID", payload.UserID.String()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Property created",
		"data":    property,
	})
}
