package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"screening-sync/internal/delivery/http/dto"
	"screening-sync/internal/delivery/http/middleware"
	"screening-sync/internal/export"
	"screening-sync/internal/pkg/response"
	"screening-sync/internal/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type JobsHandler struct {
	workspaces WorkspaceProvider
	now        func() time.Time
}

func NewJobsHandler(workspaces WorkspaceProvider, now func() time.Time) *JobsHandler {
	if now == nil {
		now = time.Now
	}
	return &JobsHandler{workspaces: workspaces, now: now}
}

type createJobRequest struct {
	Title          string   `json:"title" validate:"required,max=200"`
	Description    string   `json:"description" validate:"required"`
	RequiredSkills []string `json:"required_skills"`
	Experience     string   `json:"experience_required"`
	Status         string   `json:"status" validate:"omitempty,oneof=draft open closed"`
}

type setActiveJobRequest struct {
	JobID string `json:"job_id"`
}

type screenJobsRequest struct {
	JobIDs    []string `json:"job_ids" validate:"required,min=1"`
	ResumeIDs []string `json:"resume_ids"`
}

type applyRequest struct {
	ResumeID string `json:"resume_id" validate:"required"`
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/jobs", h.Create)
	r.Get("/jobs", h.List)
	r.Put("/jobs/active", h.SetActive)
	r.Post("/jobs/screen", h.Screen)
	r.Get("/jobs/:id", h.Get)
	r.Delete("/jobs/:id", h.Delete)
	r.Get("/jobs/:id/results", h.Results)
	r.Get("/jobs/:id/export", h.Export)
	r.Post("/jobs/:id/apply", h.Apply)
}

func (h *JobsHandler) Create(c fiber.Ctx) error {
	var req createJobRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	ws := workspace(c, h.workspaces)
	created, err := ws.CreateJob(c.Context(), usecase.CreateJobInput{
		Title:          req.Title,
		Description:    req.Description,
		RequiredSkills: req.RequiredSkills,
		Experience:     req.Experience,
		Status:         req.Status,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewJobResponse(created, ws.ActiveJobID()))
}

func (h *JobsHandler) List(c fiber.Ctx) error {
	ws := workspace(c, h.workspaces)
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobList(ws.ListJobs(), ws.ActiveJobID()))
}

func (h *JobsHandler) Get(c fiber.Ctx) error {
	ws := workspace(c, h.workspaces)
	j, err := ws.GetJob(c.Params("id"))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(j, ws.ActiveJobID()))
}

func (h *JobsHandler) Delete(c fiber.Ctx) error {
	id := c.Params("id")
	if err := workspace(c, h.workspaces).DeleteJob(c.Context(), id); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]string{"id": id})
}

// SetActive selects the job that screening scores are read against. An
// empty job_id clears the selection.
func (h *JobsHandler) SetActive(c fiber.Ctx) error {
	var req setActiveJobRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	ws := workspace(c, h.workspaces)
	if err := ws.SetActiveJob(c.Context(), req.JobID); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]string{"active_job_id": ws.ActiveJobID()})
}

func (h *JobsHandler) Screen(c fiber.Ctx) error {
	var req screenJobsRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	summary, err := workspace(c, h.workspaces).ScreenJobs(c.Context(), req.JobIDs, req.ResumeIDs)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewScreeningSummary(summary))
}

func (h *JobsHandler) Results(c fiber.Ctx) error {
	rows, err := workspace(c, h.workspaces).Results(c.Context(), c.Params("id"))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewResultRows(rows))
}

func (h *JobsHandler) Export(c fiber.Ctx) error {
	ws := workspace(c, h.workspaces)
	j, err := ws.GetJob(c.Params("id"))
	if err != nil {
		return mapUsecaseError(err)
	}
	rows, err := ws.Results(c.Context(), j.ID)
	if err != nil {
		return mapUsecaseError(err)
	}

	now := h.now()
	report := export.Report{Job: j, Rows: exportRows(j.ID, rows), GeneratedAt: now}
	body, err := export.BuildScreeningReport(report)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "", nil, err)
	}

	c.Attachment(export.FileName(j, now))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Status(fiber.StatusOK).Send(body)
}

// exportRows converts result rows to report rows. Skill matches belong to the
// job the candidate was last scored against, so other jobs get none.
func exportRows(jobID string, rows []usecase.ResultRow) []export.Row {
	out := make([]export.Row, 0, len(rows))
	for _, r := range rows {
		row := export.Row{
			CandidateID:    r.Candidate.ID,
			Name:           r.Candidate.Name,
			Email:          r.Candidate.Email,
			Status:         string(r.Status),
			ResumeScore:    r.ResumeScore,
			FinalScore:     r.FinalScore,
			Recommendation: string(r.Recommendation),
			HasInterview:   r.HasInterview,
		}
		if r.Candidate.ScoredJobID == jobID {
			row.SkillMatches = r.Candidate.SkillMatches
		}
		out = append(out, row)
	}
	return out
}

func (h *JobsHandler) Apply(c fiber.Ctx) error {
	var req applyRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	a, err := workspace(c, h.workspaces).Apply(c.Context(), c.Params("id"), req.ResumeID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewAssignmentResponse(a))
}
