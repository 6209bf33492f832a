package router

import (
	"property-marketplace-backend/conversations/controllers"
	"property-marketplace-backend/conversations/services"
	"property-marketplace-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

func InitConversationRoutes(
	app *fiber.App,
	appContext *middleware.AppContext,
	conversationService *services.ConversationService,
) {
	conversationController := &controllers.ConversationController{
		ConversationService: conversationService,
	}

	protected := app.Group("/api/v1")
	protected.Use(middleware.ProtectedRoute(appContext))
	{
		conversationRoutes := protected.Group("/conversations")
		{
			conversationRoutes.Get("/", conversationController.GetUserConversationsController)
			conversationRoutes.Get("/:id/messages", conversationController.GetConversationMessagesController)
			conversationRoutes.Post("/:id/messages", conversationController.SendMessageController)
			conversationRoutes.Patch("/:id/read", conversationController.MarkMessagesReadController)
		}
	}
}
