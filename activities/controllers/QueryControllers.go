package controllers

import (
	"time"

	"property-marketplace-backend/activities/repositories"
	"property-marketplace-backend/activities/services"
	"property-marketplace-backend/db/models"
	"property-marketplace-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetActivityController returns one activity. Only the participants and
// admins may read it.
func (ac *ActivityController) GetActivityController(c *fiber.Ctx) error {
	payload, err := authPayload(c)
	if payload == nil {
		return err
	}
	activityID, err := parseActivityID(c)
	if activityID == uuid.Nil {
		return err
	}

	activity, err := ac.ActivityRepo.GetActivityByID(activityID)
	if err != nil {
		return respondServiceError(c, services.ErrRemoteUnavailable)
	}
	if activity == nil {
		return respondServiceError(c, services.ErrActivityNotFound)
	}

	isParticipant := activity.ClientID == payload.UserID || activity.Property.OwnerID == payload.UserID
	if !isParticipant && payload.Role != models.AdminRole {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You are not allowed to view this request",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Activity retrieved",
		"data":    activity,
	})
}

// GetFilteredActivitiesController lists activities scoped to the caller:
// clients see their own requests, owners the requests on their properties,
// admins everything (optionally narrowed by query filters).
func (ac *ActivityController) GetFilteredActivitiesController(c *fiber.Ctx) error {
	payload, err := authPayload(c)
	if payload == nil {
		return err
	}

	filter := repositories.ActivityFilter{}

	switch payload.Role {
	case models.AdminRole:
		// admins may filter freely
	case models.OwnerRole:
		filter.OwnerID = &payload.UserID
	default:
		filter.ClientID = &payload.UserID
	}

	filter.PropertyID = utils.StringToUUIDPtr(c.Query("property_id"))
	if raw := c.Query("kind"); raw != "" {
		kind := models.ActivityKind(raw)
		filter.Kind = &kind
	}
	if raw := c.Query("status"); raw != "" {
		status := models.ActivityStatus(raw)
		filter.Status = &status
	}

	activities, err := ac.ActivityRepo.GetFilteredActivities(filter)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Activities retrieved",
		"data":    activities,
	})
}

// GetClientBookingsController returns the caller's requests as booking list
// items.
func (ac *ActivityController) GetClientBookingsController(c *fiber.Ctx) error {
	payload, err := authPayload(c)
	if payload == nil {
		return err
	}

	bookings, err := ac.BookingRepo.GetClientBookings(payload.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Bookings retrieved",
		"data":    bookings,
	})
}

// GetOwnerBookingsController returns the requests received on the caller's
// properties.
func (ac *ActivityController) GetOwnerBookingsController(c *fiber.Ctx) error {
	payload, err := authPayload(c)
	if payload == nil {
		return err
	}

	bookings, err := ac.BookingRepo.GetOwnerBookings(payload.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Bookings retrieved",
		"data":    bookings,
	})
}

// GetActivityProgressController returns the caller's progress steps against
// one property.
func (ac *ActivityController) GetActivityProgressController(c *fiber.Ctx) error {
	payload, err := authPayload(c)
	if payload == nil {
		return err
	}

	propertyID, err := uuid.Parse(c.Params("propertyId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid property ID",
		})
	}

	progress, err := ac.Progress.GetActivityProgress(c.Context(), propertyID, payload.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Progress retrieved",
		"data":    progress,
	})
}

// GetAvailableSlotsController lists the free visit hours for a property on a
// given date.
func (ac *ActivityController) GetAvailableSlotsController(c *fiber.Ctx) error {
	if p, err := authPayload(c); p == nil {
		return err
	}

	propertyID, err := uuid.Parse(c.Params("propertyId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid property ID",
		})
	}

	loc := utils.DateLocation
	if loc == nil {
		loc = time.Local
	}
	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), loc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "date query parameter must be YYYY-MM-DD",
		})
	}

	slots := ac.Guard.ListAvailableSlots(propertyID, date)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Available slots retrieved",
		"data": fiber.Map{
			"date":  c.Query("date"),
			"slots": slots,
		},
	})
}
