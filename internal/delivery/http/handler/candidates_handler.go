package handler

import (
	"github.com/gofiber/fiber/v3"

	"screening-sync/internal/delivery/http/dto"
	"screening-sync/internal/delivery/http/middleware"
	"screening-sync/internal/infrastructure/screening"
	"screening-sync/internal/pkg/response"
	"screening-sync/internal/usecase"
)

type CandidatesHandler struct {
	workspaces WorkspaceProvider
	maxUpload  int64
}

func NewCandidatesHandler(workspaces WorkspaceProvider, maxUpload int64) *CandidatesHandler {
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	return &CandidatesHandler{workspaces: workspaces, maxUpload: maxUpload}
}

func (h *CandidatesHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/resumes", h.Upload)
	r.Get("/candidates", h.List)
	r.Post("/candidates/sync", h.Sync)
	r.Get("/candidates/:id", h.Get)
	r.Delete("/candidates/:id", h.Delete)
	r.Get("/candidates/:id/interviews", h.Interviews)
}

func (h *CandidatesHandler) Upload(c fiber.Ctx) error {
	name, content, err := readUpload(c, "file", h.maxUpload)
	if err != nil {
		return err
	}

	in := usecase.UploadResumeInput{
		FileName: name,
		Content:  content,
		Fields: screening.ResumeFields{
			Name:       c.FormValue("name"),
			Email:      c.FormValue("email"),
			Phone:      c.FormValue("phone"),
			Skills:     splitCSV(c.FormValue("skills")),
			Education:  c.FormValue("education"),
			Experience: c.FormValue("experience"),
		},
	}
	view, err := workspace(c, h.workspaces).UploadResume(c.Context(), in)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewCandidateResponse(view))
}

func (h *CandidatesHandler) List(c fiber.Ctx) error {
	minScore, err := parseQueryIntPtr(c, "min_score")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "min_score must be an integer", nil, err)
	}
	screened, err := parseQueryBoolPtr(c, "screened")
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "screened must be a boolean", nil, err)
	}

	items := workspace(c, h.workspaces).ListCandidates(usecase.CandidateFilter{
		MinScore: minScore,
		Skill:    c.Query("skill"),
		Screened: screened,
	})
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCandidateList(items))
}

func (h *CandidatesHandler) Get(c fiber.Ctx) error {
	view, err := workspace(c, h.workspaces).GetCandidate(c.Params("id"))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCandidateResponse(view))
}

func (h *CandidatesHandler) Delete(c fiber.Ctx) error {
	id := c.Params("id")
	if err := workspace(c, h.workspaces).DeleteCandidate(c.Context(), id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]string{"id": id})
}

func (h *CandidatesHandler) Sync(c fiber.Ctx) error {
	res, err := workspace(c, h.workspaces).Sync(c.Context(), true)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSyncResponse(res))
}

func (h *CandidatesHandler) Interviews(c fiber.Ctx) error {
	ws := workspace(c, h.workspaces)
	id := c.Params("id")
	if _, err := ws.GetCandidate(id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewInterviewList(ws.Interviews(id)))
}
