package middleware

import (
	"time"

	"property-marketplace-backend/config"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ProtectedRoute now expects an *AppContext
func ProtectedRoute(ctx *AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Retrieve tokens from cookies
		accessToken := c.Cookies("access_token")
		refreshToken := c.Cookies("refresh_token")

		// If access token exists, verify it
		if accessToken != "" {
			payload, err := ctx.PasetoMaker.VerifyToken(accessToken)
			if err == nil {
				// Valid access token, proceed
				c.Locals("user", payload)
				return c.Next()
			}
			// Log invalid access token internally, but don't expose details to client
			config.Logger.Debug("Invalid access token encountered", zap.Error(err))
		}

		// At this point, either access token is missing or invalid
		// Try to use refresh token to get a new access token
		if refreshToken == "" {
			config.Logger.Debug("No refresh token provided in request")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
				"error":   "Authentication required",
			})
		}

		// Verify the refresh token
		refreshPayload, err := ctx.PasetoMaker.VerifyToken(refreshToken)
		if err != nil {
			config.Logger.Error("Invalid refresh token verification failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
				"error":   "Session expired or invalid. Please log in again.",
			})
		}

		// Check refresh token in Redis. The full refresh token string is the
		// key, for direct lookup and invalidation.
		userID, err := ctx.RedisClient.Get(ctx.Ctx, "refresh_token:"+refreshToken).Result()
		if err == redis.Nil {
			config.Logger.Warn("Refresh token not found in Redis",
				zap.String("payload_id", refreshPayload.ID.String()),
				zap.String("email", refreshPayload.Email),
			)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized",
				"error":   "Session invalid. Please log in again.",
			})
		} else if err != nil {
			config.Logger.Error("Error accessing Redis for refresh token validation",
				zap.String("payload_id", refreshPayload.ID.String()),
				zap.String("email", refreshPayload.Email),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Something went wrong",
				"error":   "An internal server error occurred.",
			})
		}

		// Single-use refresh token: invalidate the old one immediately after
		// a successful lookup.
		err = ctx.RedisClient.Del(ctx.Ctx, "refresh_token:"+refreshToken).Err()
		if err != nil {
			config.Logger.Warn("Error deleting old refresh token from Redis",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}

		// Generate a new access token
		newAccessToken, err := ctx.PasetoMaker.CreateToken(refreshPayload.UserID, refreshPayload.Email, refreshPayload.Role, 15*time.Minute)
		if err != nil {
			config.Logger.Error("Could not generate new access token",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Something went wrong",
				"error":   "An internal server error occurred.",
			})
		}

		// Generate a new refresh token
		newRefreshToken, err := ctx.PasetoMaker.CreateToken(refreshPayload.UserID, refreshPayload.Email, refreshPayload.Role, 7*24*time.Hour)
		if err != nil {
			config.Logger.Error("Could not generate new refresh token",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Something went wrong",
				"error":   "An internal server error occurred.",
			})
		}

		// Store the new refresh token in Redis, associated with the user ID
		err = ctx.RedisClient.Set(ctx.Ctx, "refresh_token:"+newRefreshToken, userID, 7*24*time.Hour).Err()
		if err != nil {
			config.Logger.Error("Error storing new refresh token in Redis",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Something went wrong",
				"error":   "An internal server error occurred.",
			})
		}

		// Set new access token cookie
		accessCookie := fiber.Cookie{
			Name:     "access_token",
			Value:    newAccessToken,
			Expires:  time.Now().Add(15 * time.Minute),
			HTTPOnly: true,
			Secure:   false, // TODO: Set to 'true' for production when using HTTPS
			SameSite: "Lax",
			Path:     "/",
			Domain:   "localhost",
		}
		c.Cookie(&accessCookie)

		// Set new refresh token cookie
		refreshCookie := fiber.Cookie{
			Name:     "refresh_token",
			Value:    newRefreshToken,
			Expires:  time.Now().Add(7 * 24 * time.Hour), // Match Redis expiration
			HTTPOnly: true,
			Secure:   false, // TODO: Set to 'true' for production when using HTTPS
			SameSite: "Lax",
			Path:     "/",
			Domain:   "localhost",
		}
		c.Cookie(&refreshCookie)

		// Set user info and continue
		c.Locals("user", refreshPayload)
		return c.Next()
	}
}
