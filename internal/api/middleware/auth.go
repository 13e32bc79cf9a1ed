package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/summarly/summarly-backend/internal/auth"
	"github.com/summarly/summarly-backend/internal/models"
)

// AuthConfig holds the auth middleware configuration
type AuthConfig struct {
	AuthService *auth.Service
	// RequireRight names a right the user's role must carry, e.g.
	// getSummaries or manageSummaries
	RequireRight string
}

// AuthRequired creates a middleware that requires authentication
func AuthRequired(authService *auth.Service) fiber.Handler {
	return AuthMiddleware(AuthConfig{AuthService: authService})
}

// RequireRight creates a middleware that requires a specific role right
func RequireRight(authService *auth.Service, right string) fiber.Handler {
	return AuthMiddleware(AuthConfig{AuthService: authService, RequireRight: right})
}

// AuthMiddleware is the main authentication middleware
func AuthMiddleware(config AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := auth.ExtractTokenFromBearer(c.Get("Authorization"))
		if token == "" {
			token = c.Cookies("access_token")
		}

		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		user, _, err := config.AuthService.ValidateAccessToken(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		if config.RequireRight != "" && !models.RoleHasRight(user.Role, config.RequireRight) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Insufficient permissions",
			})
		}

		storeUserContext(c, user)
		return c.Next()
	}
}

// storeUserContext stores user information in the fiber context
func storeUserContext(c *fiber.Ctx, user *models.User) {
	c.Locals("user_id", user.ID.String())
	c.Locals("user_role", user.Role)
	c.Locals("user_context", &models.UserContext{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
}

// GetUserContext retrieves the user context from the fiber context
func GetUserContext(c *fiber.Ctx) *models.UserContext {
	if ctx := c.Locals("user_context"); ctx != nil {
		if userContext, ok := ctx.(*models.UserContext); ok {
			return userContext
		}
	}
	return nil
}
