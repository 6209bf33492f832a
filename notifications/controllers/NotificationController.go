package controllers

import (
	"strconv"

	"property-marketplace-backend/notifications/services"
	"property-marketplace-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type NotificationController struct {
	NotificationService *services.NotificationService
}

// GetUserNotificationsController lists the caller's notifications, newest
// first. ?unread=true narrows to unread ones.
func (nc *NotificationController) GetUserNotificationsController(c *fiber.Ctx) error {
	payload, ok := c.Locals("user").(*token.Payload)
	if !ok || payload == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "User not authenticated",
		})
	}

	unreadOnly := c.Query("unread") == "true"
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	notifications, err := nc.NotificationService.GetUserNotifications(payload.UserID, unreadOnly, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	unreadCount, _ := nc.NotificationService.CountUnread(payload.UserID)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Notifications retrieved",
		"data": fiber.Map{
			"notifications": notifications,
			"unread_count":  unreadCount,
		},
	})
}

// MarkNotificationReadController flags one notification as read.
func (nc *NotificationController) MarkNotificationReadController(c *fiber.Ctx) error {
	payload, ok := c.Locals("user").(*token.Payload)
	if !ok || payload == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "User not authenticated",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid notification ID",
		})
	}

	if err := nc.NotificationService.MarkRead(id, payload.UserID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Notification marked as read",
	})
}

// MarkAllNotificationsReadController flags every unread notification as read.
func (nc *NotificationController) MarkAllNotificationsReadController(c *fiber.Ctx) error {
	payload, ok := c.Locals("user").(*token.Payload)
	if !ok || payload == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "User not authenticated",
		})
	}

	count, err := nc.NotificationService.MarkAllRead(payload.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Notifications marked as read",
		"data":    fiber.Map{"updated": count},
	})
}
