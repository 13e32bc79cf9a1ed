package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/summarly/summarly-backend/internal/api"
	"github.com/summarly/summarly-backend/internal/auth"
	"github.com/summarly/summarly-backend/internal/config"
	"github.com/summarly/summarly-backend/internal/database"
	"github.com/summarly/summarly-backend/internal/mcp"
	"github.com/summarly/summarly-backend/internal/mcp/tools"
	"github.com/summarly/summarly-backend/internal/repository/postgres"
	"github.com/summarly/summarly-backend/internal/services"
)

const version = "1.0.0"

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if os.Getenv("SUMMARLY_LOG_LEVEL") == "debug" {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	jwtSecret := cfg.JWT.Secret
	if jwtSecret == "" {
		jwtSecret = "change-me-in-production"
		log.Warn("Using default JWT secret. Set SUMMARLY_JWT_SECRET in production!")
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	summaryRepo := postgres.NewSummaryRepository(db.DB)
	userRepo := postgres.NewUserRepository(db.DB)

	authService := auth.NewService(userRepo, jwtSecret, cfg.JWT.Issuer)
	svc := services.NewServices(summaryRepo, cfg, log)

	registry, err := mcp.NewRegistry(log, tools.SummaryTools(svc.Summary)...)
	if err != nil {
		log.WithError(err).Fatal("Failed to build tool registry")
	}
	mcpServer := mcp.NewServer(mcp.ServerInfo{
		Name:    "summarly-backend",
		Title:   "Summarly MCP Server",
		Version: version,
	}, registry, log)
	sessions := mcp.NewSessionManager(cfg.MCP.SessionIdleTimeout, log)

	app := fiber.New(fiber.Config{
		AppName:      "Summarly Backend",
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(cfg),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, mcp-session-id",
		AllowMethods:     "GET, POST, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	api.SetupRoutes(app, api.Dependencies{
		Config:      cfg,
		Services:    svc,
		AuthService: authService,
		Sessions:    sessions,
		MCPServer:   mcpServer,
		Logger:      log,
	})

	// Graceful shutdown tears down live MCP sessions before the listener dies
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		log.Info("Shutting down")
		sessions.CloseAll()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.WithFields(logrus.Fields{
		"addr":   addr,
		"preset": cfg.Summary.Preset,
		"engine": cfg.Summary.Engine,
	}).Info("Summarly backend starting")
	if err := app.Listen(addr); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

func corsOrigins(cfg *config.Config) string {
	if cfg.Server.CORSOrigins != "" {
		return cfg.Server.CORSOrigins
	}
	return "http://localhost:5173,http://localhost:3000"
}
