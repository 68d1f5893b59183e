package handler

import (
	"github.com/gofiber/fiber/v3"

	"screening-sync/internal/delivery/http/dto"
	"screening-sync/internal/delivery/http/middleware"
	"screening-sync/internal/pkg/response"
	"screening-sync/internal/usecase"
)

type InterviewsHandler struct {
	workspaces WorkspaceProvider
	maxUpload  int64
}

func NewInterviewsHandler(workspaces WorkspaceProvider, maxUpload int64) *InterviewsHandler {
	if maxUpload <= 0 {
		maxUpload = 50 << 20
	}
	return &InterviewsHandler{workspaces: workspaces, maxUpload: maxUpload}
}

type manualInterviewRequest struct {
	CandidateID          string   `json:"candidate_id" validate:"required"`
	Transcript           string   `json:"transcript"`
	SentimentScore       *float64 `json:"sentiment_score" validate:"required,min=0,max=100"`
	ConfidenceScore      *float64 `json:"confidence_score" validate:"required,min=0,max=100"`
	ClarityScore         *float64 `json:"clarity_score" validate:"omitempty,min=0,max=100"`
	EnthusiasmScore      *float64 `json:"enthusiasm_score" validate:"omitempty,min=0,max=100"`
	ProfessionalismScore *float64 `json:"professionalism_score" validate:"omitempty,min=0,max=100"`
}

func (h *InterviewsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/interviews", h.Upload)
	r.Post("/interviews/manual", h.AddManual)
}

func (h *InterviewsHandler) Upload(c fiber.Ctx) error {
	candidateID := c.FormValue("candidate_id")
	if candidateID == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "candidate_id is required", nil, nil)
	}
	name, content, err := readUpload(c, "file", h.maxUpload)
	if err != nil {
		return err
	}

	iv, err := workspace(c, h.workspaces).UploadInterview(c.Context(), usecase.UploadInterviewInput{
		CandidateID: candidateID,
		FileName:    name,
		Content:     content,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewInterviewResponse(iv))
}

func (h *InterviewsHandler) AddManual(c fiber.Ctx) error {
	var req manualInterviewRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	iv, err := workspace(c, h.workspaces).AddManualInterview(c.Context(), usecase.ManualInterviewInput{
		CandidateID:          req.CandidateID,
		Transcript:           req.Transcript,
		SentimentScore:       *req.SentimentScore,
		ConfidenceScore:      *req.ConfidenceScore,
		ClarityScore:         req.ClarityScore,
		EnthusiasmScore:      req.EnthusiasmScore,
		ProfessionalismScore: req.ProfessionalismScore,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewInterviewResponse(iv))
}
