package dto

import (
	"screening-sync/internal/domain/candidate"
	"screening-sync/internal/usecase"
)

type CandidateResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Skills         []string `json:"skills"`
	Education      string   `json:"education"`
	Experience     string   `json:"experience"`
	Score          int      `json:"score"`
	FinalScore     int      `json:"final_score"`
	Recommendation string   `json:"recommendation"`
	SkillMatches   []string `json:"skill_matches"`
	ScoredJobID    string   `json:"scored_job_id,omitempty"`
	Provenance     string   `json:"provenance"`
	HasInterview   bool     `json:"has_interview"`
}

func NewCandidateResponse(v usecase.CandidateView) CandidateResponse {
	c := v.Candidate
	return CandidateResponse{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		Skills:         nonNil(c.Skills),
		Education:      c.Education,
		Experience:     c.Experience,
		Score:          c.Score,
		FinalScore:     v.FinalScore,
		Recommendation: string(v.Recommendation),
		SkillMatches:   nonNil(c.SkillMatches),
		ScoredJobID:    c.ScoredJobID,
		Provenance:     string(provenance(c)),
		HasInterview:   v.HasInterview,
	}
}

func NewCandidateList(items []usecase.CandidateView) []CandidateResponse {
	out := make([]CandidateResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewCandidateResponse(it))
	}
	return out
}

type SyncResponse struct {
	Mode       string `json:"mode"`
	Candidates int    `json:"candidates"`
	Jobs       int    `json:"jobs"`
	Dropped    int    `json:"dropped"`
}

func NewSyncResponse(r usecase.SyncResult) SyncResponse {
	return SyncResponse{Mode: string(r.Mode), Candidates: r.Candidates, Jobs: r.Jobs, Dropped: r.Dropped}
}

func provenance(c candidate.Candidate) candidate.Provenance {
	if c.Provenance == "" {
		return candidate.ProvenanceConfirmed
	}
	return c.Provenance
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
