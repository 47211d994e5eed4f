package server

import (
	"github.com/creatorstation/imgenhancer/internal/app"
	"github.com/creatorstation/imgenhancer/internal/appcron"
	"github.com/creatorstation/imgenhancer/internal/background"
	"github.com/creatorstation/imgenhancer/internal/media"
	"github.com/creatorstation/imgenhancer/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Uploads are data-URL encoded in memory, so keep the limit generous.
const bodyLimit = 32 * 1024 * 1024

func New(a *app.App) *fiber.App {
	srv := fiber.New(fiber.Config{
		AppName:   "imgenhancer",
		BodyLimit: bodyLimit,
	})

	srv.Use(recover.New())
	srv.Use(logger.New())

	srv.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	srv.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(a.Registry)))

	media.MountController(srv.Group("/panel"), a.Panel)
	background.MountController(srv.Group("/menu"), a.Worker, a.Menus)
	appcron.MountMaintenanceController(srv.Group("/maintenance"), a.Sweeper)

	return srv
}
