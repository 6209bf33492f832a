package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"property-marketplace-backend/config"
)

// InitCors applies CORS settings to the app. The allowed origin is the
// marketplace web client, overridable via CLIENT_ORIGIN.
func InitCors(app *fiber.App) {
	origin := config.GetEnv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origin,
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, Cookie",
		AllowCredentials: true,
	}))
}
