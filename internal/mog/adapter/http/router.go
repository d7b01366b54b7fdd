package http

import (
	"mog/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// AppConfig configures NewApp.
type AppConfig struct {
	// AllowOrigins is passed to the CORS middleware; empty allows any origin.
	AllowOrigins string
	// Guard protects the verb endpoints when set.
	Guard *TokenGuard
}

// NewApp builds the fiber application serving handler.
func NewApp(handler *Handler, log logger.Logger, cfg AppConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "mogd",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			log.WithContext(c.UserContext()).Errorf("Unhandled request error: %v", err)
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	origins := cfg.AllowOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(recover.New())
	app.Use(RequestID())
	app.Use(RequestContext())
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Request-ID",
	}))

	var guards []fiber.Handler
	if cfg.Guard != nil {
		guards = append(guards, cfg.Guard.Protect())
	}
	handler.RegisterRoutes(app, guards...)
	return app
}
