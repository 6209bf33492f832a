package router

import (
	"property-marketplace-backend/documents/controllers"
	"property-marketplace-backend/documents/services"
	"property-marketplace-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

func InitDocumentRoutes(
	app *fiber.App,
	appContext *middleware.AppContext,
	documentService *services.DocumentService,
) {
	documentController := &controllers.DocumentController{
		DocumentService: documentService,
	}

	protected := app.Group("/api/v1")
	protected.Use(middleware.ProtectedRoute(appContext))
	{
		protected.Post("/activities/:id/documents", documentController.UploadActivityDocumentController)
		protected.Post("/activities/:id/documents/review", documentController.ReviewDocumentsController)
	}
}
