package dto

import (
	"time"

	"screening-sync/internal/domain/job"
	"screening-sync/internal/usecase"
)

type JobResponse struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills"`
	Experience     string   `json:"experience_required"`
	Status         string   `json:"status"`
	CreatedAt      string   `json:"created_at"`
	CandidateCount int      `json:"candidate_count"`
	Active         bool     `json:"active"`
	LocalOnly      bool     `json:"local_only"`
}

func NewJobResponse(j job.Job, activeID string) JobResponse {
	return JobResponse{
		ID:             j.ID,
		Title:          j.Title,
		Description:    j.Description,
		RequiredSkills: nonNil(j.RequiredSkills),
		Experience:     j.Experience,
		Status:         string(j.Status),
		CreatedAt:      formatTime(j.CreatedAt),
		CandidateCount: j.CandidateCount,
		Active:         activeID != "" && j.ID == activeID,
		LocalOnly:      job.IsLocalID(j.ID),
	}
}

func NewJobList(items []job.Job, activeID string) []JobResponse {
	out := make([]JobResponse, 0, len(items))
	for _, j := range items {
		out = append(out, NewJobResponse(j, activeID))
	}
	return out
}

type JobOutcomeResponse struct {
	JobID   string `json:"job_id"`
	Title   string `json:"title"`
	OK      bool   `json:"ok"`
	Scored  int    `json:"scored"`
	Dropped int    `json:"dropped"`
	Error   string `json:"error,omitempty"`
}

type ScreeningSummaryResponse struct {
	Results []JobOutcomeResponse `json:"results"`
	Failed  int                  `json:"failed"`
}

func NewScreeningSummary(s usecase.ScreeningSummary) ScreeningSummaryResponse {
	out := ScreeningSummaryResponse{Results: make([]JobOutcomeResponse, 0, len(s.Results)), Failed: s.Failed}
	for _, r := range s.Results {
		item := JobOutcomeResponse{JobID: r.JobID, Title: r.Title, OK: r.Err == nil, Scored: r.Scored, Dropped: r.Dropped}
		if r.Err != nil {
			item.Error = r.Err.Error()
		}
		out.Results = append(out.Results, item)
	}
	return out
}

type ResultRowResponse struct {
	Rank           int               `json:"rank"`
	Candidate      CandidateResponse `json:"candidate"`
	Status         string            `json:"status"`
	ResumeScore    int               `json:"resume_score"`
	FinalScore     int               `json:"final_score"`
	Recommendation string            `json:"recommendation"`
	HasInterview   bool              `json:"has_interview"`
}

func NewResultRows(rows []usecase.ResultRow) []ResultRowResponse {
	out := make([]ResultRowResponse, 0, len(rows))
	for i, r := range rows {
		out = append(out, ResultRowResponse{
			Rank: i + 1,
			Candidate: NewCandidateResponse(usecase.CandidateView{
				Candidate:      r.Candidate,
				FinalScore:     r.FinalScore,
				Recommendation: r.Recommendation,
				HasInterview:   r.HasInterview,
			}),
			Status:         string(r.Status),
			ResumeScore:    r.ResumeScore,
			FinalScore:     r.FinalScore,
			Recommendation: string(r.Recommendation),
			HasInterview:   r.HasInterview,
		})
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
