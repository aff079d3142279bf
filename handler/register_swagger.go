package handler

import (
	"github.com/gofiber/fiber/v2"
)

const swaggerIndex = "/swagger/index.html"

// RedirectDocs sends /docs to the generated Swagger UI.
func RedirectDocs(ctx *fiber.Ctx) error {
	return ctx.Redirect(swaggerIndex, fiber.StatusMovedPermanently)
}
