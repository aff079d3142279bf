package handler

import (
	"context"
	"errors"

	"github.com/Grupp05-AI/Admin-sida/dashboard"
	log "github.com/Grupp05-AI/Admin-sida/pkg/logger"
	"github.com/Grupp05-AI/Admin-sida/tips"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DashboardSessions interface {
	Open(ctx context.Context) (dashboard.Response, error)
	Dispatch(ctx context.Context, id string, ev dashboard.Event) (dashboard.Response, error)
	View(id string) (dashboard.Response, error)
}

type DashboardHandler struct {
	sessions DashboardSessions
}

func NewDashboardHandler(sessions DashboardSessions) *DashboardHandler {
	return &DashboardHandler{sessions: sessions}
}

// openSession godoc
// @Summary            Open a dashboard session and load the first page
// @Tags               Dashboard
// @Produce            json
// @Success            201 {object} dashboard.Response
// @Failure            500 {object} tips.ErrorResponse
// @Router             /api/dashboard/sessions [POST]
func (h *DashboardHandler) HandleOpen(ctx *fiber.Ctx) error {
	resp, err := h.sessions.Open(ctx.Context())
	if err != nil {
		log.Logger().Error("could not open dashboard session", zap.Error(err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(tips.ErrorResponse{Error: err.Error()})
	}
	return ctx.Status(fiber.StatusCreated).JSON(resp)
}

// postEvent godoc
// @Summary            Apply a filter, paging or selection event to a session
// @Tags               Dashboard
// @Accept             json
// @Produce            json
// @Success            200 {object} dashboard.Response
// @Failure            400 {object} tips.ErrorResponse
// @Failure            404 {object} tips.ErrorResponse
// @Param              id path string true "Session Id"
// @Param              body body dashboard.EventRequest true "Event"
// @Router             /api/dashboard/sessions/{id}/events [POST]
func (h *DashboardHandler) HandleEvent(ctx *fiber.Ctx) error {
	var req dashboard.EventRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(tips.ErrorResponse{Error: err.Error()})
	}

	ev, err := dashboard.DecodeEvent(req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(tips.ErrorResponse{Error: err.Error()})
	}

	resp, err := h.sessions.Dispatch(ctx.Context(), ctx.Params("id"), ev)
	if err != nil {
		return sessionError(ctx, err)
	}
	return ctx.JSON(resp)
}

// getSession godoc
// @Summary            Get the current view of a session
// @Tags               Dashboard
// @Produce            json
// @Success            200 {object} dashboard.Response
// @Failure            404 {object} tips.ErrorResponse
// @Param              id path string true "Session Id"
// @Router             /api/dashboard/sessions/{id} [GET]
func (h *DashboardHandler) HandleView(ctx *fiber.Ctx) error {
	resp, err := h.sessions.View(ctx.Params("id"))
	if err != nil {
		return sessionError(ctx, err)
	}
	return ctx.JSON(resp)
}

func sessionError(ctx *fiber.Ctx, err error) error {
	if errors.Is(err, dashboard.ErrSessionNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(tips.ErrorResponse{Error: err.Error()})
	}
	log.Logger().Error("dashboard event failed", zap.String("session", ctx.Params("id")), zap.Error(err))
	return ctx.Status(fiber.StatusInternalServerError).JSON(tips.ErrorResponse{Error: err.Error()})
}
