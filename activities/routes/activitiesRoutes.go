package router

import (
	"property-marketplace-backend/activities/controllers"
	"property-marketplace-backend/activities/repositories"
	"property-marketplace-backend/activities/services"
	"property-marketplace-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

func InitActivityRoutes(
	app *fiber.App,
	appContext *middleware.AppContext,
	transitions *services.TransitionService,
	guard *services.GuardService,
	progress *services.ProgressService,
	activityRepo repositories.ActivityRepository,
	bookingRepo repositories.BookingViewRepository,
) {
	activityController := &controllers.ActivityController{
		Transitions:  transitions,
		Guard:        guard,
		Progress:     progress,
		ActivityRepo: activityRepo,
		BookingRepo:  bookingRepo,
	}

	protected := app.Group("/api/v1")
	protected.Use(middleware.ProtectedRoute(appContext))
	{
		activityRoutes := protected.Group("/activities")
		{
			// Request creation
			activityRoutes.Post("/visit", activityController.CreateVisitRequestController)
			activityRoutes.Post("/reservation", activityController.CreateReservationRequestController)
			activityRoutes.Post("/interest", activityController.CreateInterestRequestController)

			// Owner decisions and client withdrawal
			activityRoutes.Post("/:id/accept", activityController.AcceptActivityController)
			activityRoutes.Post("/:id/refuse", activityController.RefuseActivityController)
			activityRoutes.Post("/:id/cancel", activityController.CancelActivityController)

			// Sale verification and title deed
			activityRoutes.Post("/:id/verification", activityController.SubmitVerificationController)
			activityRoutes.Post("/:id/verification/review", activityController.ReviewVerificationController)
			activityRoutes.Post("/:id/title-deed/request", activityController.RequestTitleDeedController)
			activityRoutes.Post("/:id/title-deed/deliver", activityController.DeliverTitleDeedController)

			activityRoutes.Get("/:id", activityController.GetActivityController)
		}

		protected.Get("/filtered-activities", activityController.GetFilteredActivitiesController)
		protected.Get("/bookings", activityController.GetClientBookingsController)
		protected.Get("/owner-bookings", activityController.GetOwnerBookingsController)
		protected.Get("/properties/:propertyId/progress", activityController.GetActivityProgressController)
		protected.Get("/properties/:propertyId/slots", activityController.GetAvailableSlotsController)
	}
}
