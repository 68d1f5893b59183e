package dto

import "screening-sync/internal/domain/interview"

type InterviewResponse struct {
	ID                   string   `json:"id"`
	CandidateID          string   `json:"candidate_id"`
	Transcript           string   `json:"transcript"`
	SentimentScore       float64  `json:"sentiment_score"`
	ConfidenceScore      float64  `json:"confidence_score"`
	ClarityScore         *float64 `json:"clarity_score,omitempty"`
	EnthusiasmScore      *float64 `json:"enthusiasm_score,omitempty"`
	ProfessionalismScore *float64 `json:"professionalism_score,omitempty"`
	CreatedAt            string   `json:"created_at"`
}

func NewInterviewResponse(iv interview.Interview) InterviewResponse {
	return InterviewResponse{
		ID:                   iv.ID,
		CandidateID:          iv.CandidateID,
		Transcript:           iv.Transcript,
		SentimentScore:       iv.SentimentScore,
		ConfidenceScore:      iv.ConfidenceScore,
		ClarityScore:         iv.ClarityScore,
		EnthusiasmScore:      iv.EnthusiasmScore,
		ProfessionalismScore: iv.ProfessionalismScore,
		CreatedAt:            formatTime(iv.CreatedAt),
	}
}

func NewInterviewList(items []interview.Interview) []InterviewResponse {
	out := make([]InterviewResponse, 0, len(items))
	for _, iv := range items {
		out = append(out, NewInterviewResponse(iv))
	}
	return out
}
