package server

import (
	"context"

	"citebot/archive"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

type ServerConfig struct {
	// The archive store backing the stats endpoint
	Store *archive.Store
}

// Server returns the health and metrics app that runs alongside the
// scheduled pipeline in serve mode.
func Server(config *ServerConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(requestid.New())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/stats", func(c *fiber.Ctx) error {
		count, err := config.Store.Count(context.Background())
		if err != nil {
			log.Errorf("Failed to count archive entries: %s", err)
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{
			"archived_citations": count,
		})
	})

	return app
}
