package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/summarly/summarly-backend/internal/api/middleware"
	"github.com/summarly/summarly-backend/internal/auth"
	"github.com/summarly/summarly-backend/internal/models"
)

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type userResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:       u.ID.String(),
		Email:    u.Email,
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
	}
}

var validate = validator.New()

// Signup handles POST /api/v1/auth/signup
func Signup(authService *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signupRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		user, err := authService.SignUp(c.Context(), req.Email, req.Username, req.Password, req.FullName)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrUserExists):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
			case errors.Is(err, auth.ErrPasswordTooShort), errors.Is(err, auth.ErrPasswordTooWeak):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
			}
		}

		return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
	}
}

// Login handles POST /api/v1/auth/login
func Login(authService *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		user, access, refresh, err := authService.Login(c.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrUserInactive) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Login failed"})
		}

		return c.JSON(fiber.Map{
			"user":          toUserResponse(user),
			"access_token":  access,
			"refresh_token": refresh,
		})
	}
}

// RefreshToken handles POST /api/v1/auth/refresh
func RefreshToken(authService *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req refreshRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if err := validate.Struct(req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		access, refresh, err := authService.Refresh(c.Context(), req.RefreshToken)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired refresh token"})
		}

		return c.JSON(fiber.Map{
			"access_token":  access,
			"refresh_token": refresh,
		})
	}
}

// GetCurrentUser handles GET /api/v1/auth/me
func GetCurrentUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userCtx := middleware.GetUserContext(c)
		if userCtx == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not authenticated"})
		}
		return c.JSON(fiber.Map{
			"id":       userCtx.UserID.String(),
			"email":    userCtx.Email,
			"username": userCtx.Username,
			"role":     userCtx.Role,
		})
	}
}
