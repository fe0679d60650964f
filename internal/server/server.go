// Package server assembles the Fiber application for the catalog API.
package server

import (
	"time"

	"catalog/internal/handlers"
	"catalog/internal/middleware"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// Options configures the HTTP surface.
type Options struct {
	// CORSAllowOrigins is a comma separated origin list; empty allows any.
	CORSAllowOrigins string
}

// New returns a Fiber app with middleware, the health check and the
// product routes registered.
func New(productService *services.ProductService, opts Options, logger zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "catalog",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.CORSAllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	productHandler := handlers.NewProductHandler(productService, logger)
	productHandler.RegisterRoutes(app)

	return app
}
