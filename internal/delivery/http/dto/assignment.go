package dto

import (
	"screening-sync/internal/domain/assignment"
	"screening-sync/internal/ledger"
)

type StatusChangeResponse struct {
	From      string `json:"from"`
	To        string `json:"to"`
	ChangedAt string `json:"changed_at"`
	Note      string `json:"note,omitempty"`
}

type AssignmentResponse struct {
	CandidateID string                 `json:"candidate_id"`
	JobID       string                 `json:"job_id"`
	Status      string                 `json:"status"`
	Score       *int                   `json:"score"`
	CreatedAt   string                 `json:"created_at"`
	UpdatedAt   string                 `json:"updated_at"`
	HiredAt     string                 `json:"hired_at,omitempty"`
	History     []StatusChangeResponse `json:"history"`
}

func NewAssignmentResponse(a assignment.Assignment) AssignmentResponse {
	out := AssignmentResponse{
		CandidateID: a.CandidateID,
		JobID:       a.JobID,
		Status:      string(a.Status),
		Score:       a.Score,
		CreatedAt:   formatTime(a.CreatedAt),
		UpdatedAt:   formatTime(a.UpdatedAt),
		History:     make([]StatusChangeResponse, 0, len(a.History)),
	}
	if a.HiredAt != nil {
		out.HiredAt = formatTime(*a.HiredAt)
	}
	for _, h := range a.History {
		out.History = append(out.History, StatusChangeResponse{
			From:      string(h.From),
			To:        string(h.To),
			ChangedAt: formatTime(h.ChangedAt),
			Note:      h.Note,
		})
	}
	return out
}

func NewAssignmentList(items []assignment.Assignment) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, NewAssignmentResponse(a))
	}
	return out
}

type StatusCountResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type OpenJobAgeResponse struct {
	JobID       string `json:"job_id"`
	Title       string `json:"title"`
	ElapsedDays int    `json:"elapsed_days"`
}

type LedgerMetricsResponse struct {
	Pipeline           []StatusCountResponse `json:"pipeline"`
	AvgDaysToFill      *int                  `json:"avg_days_to_fill"`
	AvgDaysToFillLabel string                `json:"avg_days_to_fill_label"`
	OldestOpenJob      *OpenJobAgeResponse   `json:"oldest_open_job"`
}

func NewLedgerMetrics(m ledger.Metrics) LedgerMetricsResponse {
	out := LedgerMetricsResponse{
		Pipeline:           make([]StatusCountResponse, 0, len(m.Pipeline)),
		AvgDaysToFill:      m.AvgDaysToFill,
		AvgDaysToFillLabel: m.AvgDaysToFillLabel(),
	}
	for _, p := range m.Pipeline {
		out.Pipeline = append(out.Pipeline, StatusCountResponse{Status: string(p.Status), Count: p.Count})
	}
	if m.OldestOpenJob != nil {
		out.OldestOpenJob = &OpenJobAgeResponse{
			JobID:       m.OldestOpenJob.JobID,
			Title:       m.OldestOpenJob.Title,
			ElapsedDays: m.OldestOpenJob.ElapsedDays,
		}
	}
	return out
}
