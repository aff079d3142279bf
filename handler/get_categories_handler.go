package handler

import (
	"context"

	log "github.com/Grupp05-AI/Admin-sida/pkg/logger"
	"github.com/Grupp05-AI/Admin-sida/tips"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CategoryLister interface {
	Categories(ctx context.Context) ([]tips.Category, error)
}

// getCategories godoc
// @Summary            List the distinct tip categories
// @Tags               Tips
// @Produce            json
// @Success            200 {array} tips.Category
// @Failure            500 {object} tips.ErrorResponse
// @Router             /api/categories [GET]
func GetCategoriesHandler(svc CategoryLister) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		categories, err := svc.Categories(ctx.Context())
		if err != nil {
			log.Logger().Error("could not list categories", zap.Error(err))
			return ctx.Status(fiber.StatusInternalServerError).JSON(tips.ErrorResponse{Error: err.Error()})
		}
		return ctx.JSON(categories)
	}
}
