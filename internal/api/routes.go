package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/summarly/summarly-backend/internal/api/handlers"
	"github.com/summarly/summarly-backend/internal/api/middleware"
	"github.com/summarly/summarly-backend/internal/auth"
	"github.com/summarly/summarly-backend/internal/config"
	"github.com/summarly/summarly-backend/internal/mcp"
	"github.com/summarly/summarly-backend/internal/models"
	"github.com/summarly/summarly-backend/internal/services"
)

// Dependencies bundles everything the route tree needs
type Dependencies struct {
	Config      *config.Config
	Services    *services.Services
	AuthService *auth.Service
	Sessions    *mcp.SessionManager
	MCPServer   *mcp.Server
	Logger      *logrus.Logger
}

// SetupRoutes mounts the REST API under /api/v1 and the MCP endpoint at /mcp
func SetupRoutes(app *fiber.App, deps Dependencies) {
	v1 := app.Group("/api/v1")

	v1.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "summarly-backend"})
	})

	authRequired := middleware.AuthRequired(deps.AuthService)

	authGroup := v1.Group("/auth")
	authGroup.Post("/signup", handlers.Signup(deps.AuthService))
	authGroup.Post("/login", handlers.Login(deps.AuthService))
	authGroup.Post("/refresh", handlers.RefreshToken(deps.AuthService))
	authGroup.Get("/me", authRequired, handlers.GetCurrentUser())

	summaryHandler := handlers.NewSummaryHandler(deps.Services.Summary)

	canRead := middleware.RequireRight(deps.AuthService, models.RightGetSummaries)
	canManage := middleware.RequireRight(deps.AuthService, models.RightManageSummaries)

	summaryGroup := v1.Group("/summary")
	summaryGroup.Post("/generate", canManage, summaryHandler.Generate)
	summaryGroup.Get("/history", canRead, summaryHandler.History)
	summaryGroup.Get("/:id", canRead, summaryHandler.GetByID)
	if deps.Config.Summary.AllowTitleUpdate {
		summaryGroup.Patch("/:id", canManage, summaryHandler.Update)
	}
	summaryGroup.Delete("/:id", canManage, summaryHandler.Delete)

	mcpHandler := handlers.NewMCPHandler(deps.Sessions, deps.MCPServer, deps.Logger)
	app.Post("/mcp", mcpHandler.Post)
	app.Get("/mcp", mcpHandler.Get)
	app.Delete("/mcp", mcpHandler.Delete)
}
