package handler

import (
	"context"

	log "github.com/Grupp05-AI/Admin-sida/pkg/logger"
	"github.com/Grupp05-AI/Admin-sida/service"
	"github.com/Grupp05-AI/Admin-sida/tips"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TipLister interface {
	List(ctx context.Context, q tips.Query) (*tips.ListResponse, error)
}

// getTips godoc
// @Summary            List tips with free-text, category and date filters
// @Tags               Tips
// @Produce            json
// @Success            200 {object} tips.ListResponse
// @Failure            400 {object} tips.ErrorResponse
// @Failure            500 {object} tips.ErrorResponse
// @Param              q query string false "Free text, matched against text, summary, threat_reason, place and category"
// @Param              from query string false "Earliest event date (YYYY-MM-DD)"
// @Param              to query string false "Latest event date (YYYY-MM-DD)"
// @Param              categories query string false "Comma separated categories"
// @Param              page query integer false "Page, starting at 1"
// @Param              limit query integer false "Page size, 1 to 100"
// @Router             /api/tips [GET]
func GetTips(svc TipLister) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		q, err := service.ParseQuery(service.Params{
			Q:          ctx.Query("q"),
			From:       ctx.Query("from"),
			To:         ctx.Query("to"),
			Categories: ctx.Query("categories"),
			Page:       ctx.Query("page"),
			Limit:      ctx.Query("limit"),
		})
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(tips.ErrorResponse{Error: err.Error()})
		}

		resp, err := svc.List(ctx.Context(), q)
		if err != nil {
			log.Logger().Error("could not list tips", zap.Error(err))
			return ctx.Status(fiber.StatusInternalServerError).JSON(tips.ErrorResponse{Error: err.Error()})
		}

		return ctx.JSON(resp)
	}
}
