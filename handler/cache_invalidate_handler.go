package handler

import (
	"github.com/gofiber/fiber/v2"
)

type Pruner interface {
	Prune() error
}

// invalidateCache godoc
// @Summary            Drop every cached response and geocode result
// @Tags               Cache
// @Success            200
// @Security           ApiKeyAuth
// @Router             /caches/prune [GET]
func InvalidateCache(cacheRepo Pruner) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if cacheRepo == nil {
			return ctx.SendStatus(fiber.StatusNoContent)
		}

		err := cacheRepo.Prune()
		if err != nil {
			ctx.Status(fiber.StatusInternalServerError)
			return ctx.SendString(err.Error())
		}

		return ctx.SendStatus(fiber.StatusOK)
	}
}
