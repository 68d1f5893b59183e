package handler

import (
	"github.com/gofiber/fiber/v3"

	"screening-sync/internal/delivery/http/dto"
	"screening-sync/internal/pkg/response"
)

type AssignmentsHandler struct {
	workspaces WorkspaceProvider
}

func NewAssignmentsHandler(workspaces WorkspaceProvider) *AssignmentsHandler {
	return &AssignmentsHandler{workspaces: workspaces}
}

type assignRequest struct {
	CandidateID string `json:"candidate_id" validate:"required"`
	JobID       string `json:"job_id" validate:"required"`
	Score       *int   `json:"score" validate:"omitempty,min=0,max=100"`
}

type setStatusRequest struct {
	CandidateID string `json:"candidate_id" validate:"required"`
	JobID       string `json:"job_id" validate:"required"`
	Status      string `json:"status" validate:"required"`
	Note        string `json:"note"`
}

func (h *AssignmentsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/assignments", h.Assign)
	r.Put("/assignments/status", h.SetStatus)
	r.Get("/assignments", h.List)
	r.Get("/ledger/metrics", h.Metrics)
}

func (h *AssignmentsHandler) Assign(c fiber.Ctx) error {
	var req assignRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	a, err := workspace(c, h.workspaces).Assign(c.Context(), req.CandidateID, req.JobID, req.Score)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewAssignmentResponse(a))
}

func (h *AssignmentsHandler) SetStatus(c fiber.Ctx) error {
	var req setStatusRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	a, err := workspace(c, h.workspaces).SetAssignmentStatus(c.Context(), req.CandidateID, req.JobID, req.Status, req.Note)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAssignmentResponse(a))
}

func (h *AssignmentsHandler) List(c fiber.Ctx) error {
	items := workspace(c, h.workspaces).Assignments(c.Query("job_id"))
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewAssignmentList(items))
}

func (h *AssignmentsHandler) Metrics(c fiber.Ctx) error {
	m := workspace(c, h.workspaces).LedgerMetrics()
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewLedgerMetrics(m))
}
