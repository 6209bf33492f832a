package router

import (
	"property-marketplace-backend/middleware"
	"property-marketplace-backend/properties/controllers"
	"property-marketplace-backend/properties/repositories"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func InitPropertyRoutes(
	app *fiber.App,
	appContext *middleware.AppContext,
	propertyRepo repositories.PropertyRepository,
	db *gorm.DB,
) {
	propertyController := &controllers.PropertyController{
		PropertyRepo: propertyRepo,
		DB:           db,
	}

	protected := app.Group("/api/v1")
	protected.Use(middleware.ProtectedRoute(appContext))
	{
		propertyRoutes := protected.Group("/properties")
		{
			propertyRoutes.Get("/mine", propertyController.GetOwnerPropertiesController)
			propertyRoutes.Post("/", propertyController.CreatePropertyController)
			propertyRoutes.Get("/:id", propertyController.GetPropertyController)
		}
	}
}
