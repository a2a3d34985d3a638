package server

import (
	"log"

	"hybrid-search-be/internal/bootstrap"
	"hybrid-search-be/internal/config"
	"hybrid-search-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	// Initialize Fiber App
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	// Routes
	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	app.Get("/health", healthHandler(c))

	api := app.Group("/api")

	c.SearchController.RegisterRoutes(api)
	c.IndexController.RegisterRoutes(api)
	c.MigrationController.RegisterRoutes(api)
}

// healthHandler pings the backing stores. The process is "degraded" rather
// than down when Redis is unreachable, since search still works through L1.
func healthHandler(c *bootstrap.Container) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		status := fiber.StatusOK
		checks := fiber.Map{
			"database": "ok",
			"redis":    "ok",
		}

		sqlDB, err := c.DB.DB()
		if err != nil || sqlDB.PingContext(ctx.Context()) != nil {
			checks["database"] = "unreachable"
			status = fiber.StatusServiceUnavailable
		}

		if err := c.Redis.Ping(ctx.Context()).Err(); err != nil {
			checks["redis"] = "unreachable"
			if status == fiber.StatusOK {
				checks["status"] = "degraded"
			}
		}

		return ctx.Status(status).JSON(checks)
	}
}
