package router

import "github.com/gofiber/fiber/v2"

type HealthRouter struct{}

func (h HealthRouter) InstallRouter(app *fiber.App) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

func NewHealthRouter() *HealthRouter {
	return &HealthRouter{}
}
