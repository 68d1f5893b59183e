package handler

import (
	"github.com/gofiber/fiber/v3"

	"screening-sync/internal/delivery/http/dto"
	"screening-sync/internal/pkg/response"
)

type DashboardHandler struct {
	workspaces WorkspaceProvider
}

func NewDashboardHandler(workspaces WorkspaceProvider) *DashboardHandler {
	return &DashboardHandler{workspaces: workspaces}
}

func (h *DashboardHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/dashboard", h.Get)
	r.Post("/dashboard/refresh", h.Refresh)
	r.Get("/workspace/activity", h.Activity)
}

func (h *DashboardHandler) Get(c fiber.Ctx) error {
	view := workspace(c, h.workspaces).Dashboard(c.Context())
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewDashboardResponse(view))
}

func (h *DashboardHandler) Refresh(c fiber.Ctx) error {
	view, err := workspace(c, h.workspaces).RefreshDashboard(c.Context())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewDashboardResponse(view))
}

func (h *DashboardHandler) Activity(c fiber.Ctx) error {
	snap := workspace(c, h.workspaces).Activity()
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewActivityResponse(snap))
}
