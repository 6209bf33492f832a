package router

import (
	"property-marketplace-backend/middleware"
	"property-marketplace-backend/notifications/controllers"
	"property-marketplace-backend/notifications/services"

	"github.com/gofiber/fiber/v2"
)

func InitNotificationRoutes(
	app *fiber.App,
	appContext *middleware.AppContext,
	notificationService *services.NotificationService,
) {
	notificationController := &controllers.NotificationController{
		NotificationService: notificationService,
	}

	protected := app.Group("/api/v1")
	protected.Use(middleware.ProtectedRoute(appContext))
	{
		notificationRoutes := protected.Group("/notifications")
		{
			notificationRoutes.Get("/", notificationController.GetUserNotificationsController)
			notificationRoutes.Patch("/read-all", notificationController.MarkAllNotificationsReadController)
			notificationRoutes.Patch("/:id/read", notificationController.MarkNotificationReadController)
		}
	}
}
