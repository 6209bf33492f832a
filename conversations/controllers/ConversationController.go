package controllers

import (
	"strconv"

	"property-marketplace-backend/conversations/services"
	"property-marketplace-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ConversationController struct {
	ConversationService *services.ConversationService
}

func currentUser(c *fiber.Ctx) *token.Payload {
	payload, ok := c.Locals("user").(*token.Payload)
	if !ok {
		return nil
	}
	return payload
}

// GetUserConversationsController lists the caller's threads, most recently
// active first.
func (cc *ConversationController) GetUserConversationsController(c *fiber.Ctx) error {
	payload := currentUser(c)
	if payload == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "User not authenticated",
		})
	}

	conversations, err := cc.ConversationService.GetUserConversations(payload.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Conversations retrieved",
		"data":    conversations,
	})
}

// GetConversationMessagesController returns a page of one thread's messages.
func (cc *ConversationController) GetConversationMessagesController(c *fiber.Ctx) error {
	payload := currentUser(c)
	if payload == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "User not authenticated",
		})
	}

	conversationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid conversation ID",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	messages, err := cc.ConversationService.GetConversationMessages(conversationID, payload.UserID, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Could not read this conversation",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Messages retrieved",
		"data":    messages,
	})
}

// SendMessageController posts a chat message into a thread.
func (cc *ConversationController) SendMessageController(c *fiber.Ctx) error {
	payload := currentUser(c)
	if payload == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "User not authenticated",
		})
	}

	conversationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid conversation ID",
		})
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil || body.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "content is required",
		})
	}

	message, err := cc.ConversationService.SendMessage(c.Context(), conversationID, payload.UserID, body.Content)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Could not send message",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Message sent",
		"data":    message,
	})
}

// MarkMessagesReadController flags messages in a thread as read.
func (cc *ConversationController) MarkMessagesReadController(c *fiber.Ctx) error {
	payload := currentUser(c)
	if payload == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "User not authenticated",
		})
	}

	conversationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid conversation ID",
		})
	}

	var body struct {
		MessageIDs []string `json:"message_ids"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request payload",
			"error":   err.Error(),
		})
	}

	count, err := cc.ConversationService.MarkMessagesRead(conversationID, payload.UserID, body.MessageIDs)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Messages marked as read",
		"data":    fiber.Map{"updated": count},
	})
}
