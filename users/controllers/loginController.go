package controllers

import (
	"context"
	"time"

	"property-marketplace-backend/config"
	"property-marketplace-backend/db/models"
	"property-marketplace-backend/token"
	"property-marketplace-backend/users/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	accessTokenDuration  = 15 * time.Minute
	refreshTokenDuration = 7 * 24 * time.Hour
)

type LoginController struct {
	UserRepo    repositories.UserRepository
	PasetoMaker token.Maker
	Ctx         context.Context
	RedisClient *redis.Client
}

func (lc *LoginController) LoginUser(c *fiber.Ctx) error {
	type LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		config.Logger.Error("Error parsing login request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
			"data":    nil,
			"error":   "Invalid request format.",
		})
	}

	user, err := lc.UserRepo.GetUserByEmail(req.Email)
	if err != nil || user.CheckPassword(req.Password) != nil {
		if err != nil {
			config.Logger.Warn("Login attempt: User not found or database error",
				zap.String("email", req.Email),
				zap.Error(err),
			)
		} else {
			config.Logger.Warn("Login attempt: Invalid password",
				zap.String("email", req.Email),
			)
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"data":    nil,
			"error":   "Invalid email or password.",
		})
	}

	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Account disabled",
			"data":    nil,
			"error":   "This account has been deactivated.",
		})
	}

	accessToken, err := lc.PasetoMaker.CreateToken(user.ID, user.Email, user.Role, accessTokenDuration)
	if err != nil {
		config.Logger.Error("Could not generate access token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
			"data":    nil,
			"error":   "An internal server error occurred.",
		})
	}

	refreshToken, err := lc.PasetoMaker.CreateToken(user.ID, user.Email, user.Role, refreshTokenDuration)
	if err != nil {
		config.Logger.Error("Could not generate refresh token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
			"data":    nil,
			"error":   "An internal server error occurred.",
		})
	}

	// Refresh tokens are single use; the middleware rotates them on every
	// refresh, so the Redis entry tracks the currently valid one.
	err = lc.RedisClient.Set(lc.Ctx, "refresh_token:"+refreshToken, user.ID.String(), refreshTokenDuration).Err()
	if err != nil {
		config.Logger.Error("Error storing refresh token in Redis",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
			"data":    nil,
			"error":   "An internal server error occurred.",
		})
	}

	setAuthCookies(c, accessToken, refreshToken)

	config.Logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"data": fiber.Map{
			"user": user,
		},
		"error": nil,
	})
}

func (lc *LoginController) RegisterUser(c *fiber.Ctx) error {
	type RegisterRequest struct {
		FirstName   string  `json:"first_name"`
		LastName    string  `json:"last_name"`
		Email       string  `json:"email"`
		Password    string  `json:"password"`
		PhoneNumber *string `json:"phone_number"`
		City        *string `json:"city"`
		Role        string  `json:"role"`
	}

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
			"data":    nil,
			"error":   "Invalid request format.",
		})
	}

	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
			"data":    nil,
			"error":   "first_name, last_name, email and password are required.",
		})
	}

	role := models.ClientRole
	if req.Role == string(models.OwnerRole) {
		role = models.OwnerRole
	}

	user := &models.User{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		City:        req.City,
		Role:        role,
		IsActive:    true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		config.Logger.Error("Failed to hash password", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Something went wrong",
			"data":    nil,
			"error":   "An internal server error occurred.",
		})
	}

	created, err := lc.UserRepo.CreateUser(user)
	if err != nil {
		config.Logger.Warn("Failed to create user",
			zap.String("email", req.Email),
			zap.Error(err),
		)
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Registration failed",
			"data":    nil,
			"error":   "An account with that email may already exist.",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
		"data":    fiber.Map{"user": created},
		"error":   nil,
	})
}

func (lc *LoginController) LogoutUser(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken != "" {
		if err := lc.RedisClient.Del(lc.Ctx, "refresh_token:"+refreshToken).Err(); err != nil {
			config.Logger.Warn("Error deleting refresh token on logout", zap.Error(err))
		}
	}

	clearAuthCookies(c)

	return c.JSON(fiber.Map{
		"message": "Logged out",
		"data":    nil,
		"error":   nil,
	})
}

func (lc *LoginController) GetCurrentUser(c *fiber.Ctx) error {
	payload, ok := c.Locals("user").(*token.Payload)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized",
			"data":    nil,
			"error":   "Authentication required",
		})
	}

	user, err := lc.UserRepo.GetUserByID(payload.UserID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "User not found",
			"data":    nil,
			"error":   "User does not exist.",
		})
	}

	return c.JSON(fiber.Map{
		"message": "User retrieved",
		"data":    fiber.Map{"user": user},
		"error":   nil,
	})
}

func setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(accessTokenDuration),
		HTTPOnly: true,
		Secure:   false, // TODO: Set to 'true' for production when using HTTPS
		SameSite: "Lax",
		Path:     "/",
		Domain:   "localhost",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  time.Now().Add(refreshTokenDuration),
		HTTPOnly: true,
		Secure:   false, // TODO: Set to 'true' for production when using HTTPS
		SameSite: "Lax",
		Path:     "/",
		Domain:   "localhost",
	})
}

func clearAuthCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	c.Cookie(&fiber.Cookie{Name: "access_token", Value: "", Expires: expired, HTTPOnly: true, Path: "/", Domain: "localhost"})
	c.Cookie(&fiber.Cookie{Name: "refresh_token", Value: "", Expires: expired, HTTPOnly: true, Path: "/", Domain: "localhost"})
}
