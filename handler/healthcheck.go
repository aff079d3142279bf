package handler

import (
	"context"

	log "github.com/Grupp05-AI/Admin-sida/pkg/logger"
	"github.com/Grupp05-AI/Admin-sida/tips"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type HealthChecker interface {
	Health(ctx context.Context) (int, error)
}

// HealthCheck godoc
// @Summary            Show the status of server.
// @Description        get the status of server.
// @Tags               Healthcheck
// @Accept             */*
// @Produce            json
// @Success            200 {string} map[string]interface{}
// @Router             /healthcheck [GET]
func HealthCheck(ctx *fiber.Ctx) error {
	return ctx.SendStatus(fiber.StatusOK)
}

// StoreHealth godoc
// @Summary            Count the stored tips to verify database access
// @Tags               Healthcheck
// @Produce            json
// @Success            200 {object} tips.HealthResponse
// @Failure            500 {object} tips.HealthResponse
// @Router             /api/health [GET]
func StoreHealth(svc HealthChecker) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		rows, err := svc.Health(ctx.Context())
		if err != nil {
			log.Logger().Error("health check failed", zap.Error(err))
			return ctx.Status(fiber.StatusInternalServerError).JSON(tips.HealthResponse{OK: false, Error: err.Error()})
		}
		return ctx.JSON(tips.HealthResponse{OK: true, Rows: rows})
	}
}
