package router

import (
	"property-marketplace-backend/middleware"
	"property-marketplace-backend/payments/controllers"
	"property-marketplace-backend/payments/services"

	"github.com/gofiber/fiber/v2"
)

func InitPaymentRoutes(
	app *fiber.App,
	appContext *middleware.AppContext,
	paymentService *services.PaymentService,
) {
	paymentController := &controllers.PaymentController{
		PaymentService: paymentService,
	}

	protected := app.Group("/api/v1")
	protected.Use(middleware.ProtectedRoute(appContext))
	{
		protected.Post("/activities/:id/payment", paymentController.ProcessPaymentController)
	}
}
