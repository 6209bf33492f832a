package router

import (
	activity_repositories "property-marketplace-backend/activities/repositories"
	"property-marketplace-backend/contracts/controllers"
	"property-marketplace-backend/contracts/services"
	"property-marketplace-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

func InitContractRoutes(
	app *fiber.App,
	appContext *middleware.AppContext,
	contractService *services.ContractService,
	activityRepo activity_repositories.ActivityRepository,
) {
	contractController := &controllers.ContractController{
		ContractService: contractService,
		ActivityRepo:    activityRepo,
	}

	protected := app.Group("/api/v1")
	protected.Use(middleware.ProtectedRoute(appContext))
	{
		protected.Get("/activities/:id/contract", contractController.GetActivityContractController)
	}
}
