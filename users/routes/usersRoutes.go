package router

import (
	"context"

	"property-marketplace-backend/middleware"
	"property-marketplace-backend/token"
	"property-marketplace-backend/users/controllers"
	"property-marketplace-backend/users/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func InitUserRoutes(
	app *fiber.App,
	userRepo repositories.UserRepository,
	ctx context.Context,
	redisClient *redis.Client,
	tokenMaker token.Maker,
) {
	loginController := &controllers.LoginController{
		UserRepo:    userRepo,
		PasetoMaker: tokenMaker,
		Ctx:         ctx,
		RedisClient: redisClient,
	}

	appContext := &middleware.AppContext{
		PasetoMaker: tokenMaker,
		Ctx:         ctx,
		RedisClient: redisClient,
	}

	loginLimiter := middleware.NewLoginRateLimiter(10, 5)

	// Public routes (no authentication required)
	publicRoutes := app.Group("/api/v1")
	{
		publicRoutes.Post("/auth/login", loginLimiter.Handler(), loginController.LoginUser)
		publicRoutes.Post("/auth/register", loginController.RegisterUser)
	}

	// Protected routes (require authentication)
	protectedRoutes := app.Group("/api/v1")
	protectedRoutes.Use(middleware.ProtectedRoute(appContext))
	{
		protectedRoutes.Post("/auth/logout", loginController.LogoutUser)
		protectedRoutes.Get("/auth/me", loginController.GetCurrentUser)
	}
}
