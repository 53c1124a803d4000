package server

import (
	"errors"
	"log"

	"adalchemy-bot/internal/bootstrap"
	"adalchemy-bot/internal/config"
	"adalchemy-bot/internal/repository/contract"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
)

// Server is the small HTTP sidecar next to the gateway connection: a liveness
// probe plus the internal admin surface used by the research pipeline to flip
// a business to onboarded once its first document lands.
type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware())

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

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

type onboardRequest struct {
	BusinessName string `json:"business_name"`
	Onboarded    *bool  `json:"onboarded"`
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})

	admin := app.Group("/admin")
	admin.Post("/onboard", func(ctx *fiber.Ctx) error {
		var req onboardRequest
		if err := ctx.BodyParser(&req); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		if req.BusinessName == "" {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "business_name is required"})
		}
		onboarded := true
		if req.Onboarded != nil {
			onboarded = *req.Onboarded
		}

		if err := c.MappingRepository.SetOnboarded(ctx.Context(), req.BusinessName, onboarded); err != nil {
			if errors.Is(err, contract.ErrNotFound) {
				return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "business not found"})
			}
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return ctx.JSON(fiber.Map{"business_name": req.BusinessName, "onboarded": onboarded})
	})
}
