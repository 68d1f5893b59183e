package screening

import "time"

type JobRequest struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	RequiredSkills     []string `json:"required_skills,omitempty"`
	ExperienceRequired string   `json:"experience_required,omitempty"`
	Status             string   `json:"status,omitempty"`
}

type JobDTO struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	RequiredSkills     []string  `json:"required_skills"`
	ExperienceRequired string    `json:"experience_required"`
	Status             string    `json:"status"`
	CandidatesScreened int       `json:"candidates_screened"`
	CreatedAt          time.Time `json:"created_at"`
}

type screenRequest struct {
	ResumeIDs []string `json:"resume_ids"`
}

type AnalysisDTO struct {
	SentimentScore       *float64 `json:"sentiment_score"`
	ConfidenceScore      *float64 `json:"confidence_score"`
	ClarityScore         *float64 `json:"clarity_score"`
	EnthusiasmScore      *float64 `json:"enthusiasm_score"`
	ProfessionalismScore *float64 `json:"professionalism_score"`
}

type InterviewDTO struct {
	ID         string       `json:"id"`
	ResumeID   string       `json:"resume_id"`
	FileName   string       `json:"file_name"`
	Transcript string       `json:"transcript"`
	Analysis   *AnalysisDTO `json:"analysis"`
	IsAnalyzed bool         `json:"is_analyzed"`
	CreatedAt  time.Time    `json:"created_at"`
}

type TopCandidateDTO struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Score *float64 `json:"score"`
}

type SkillCountDTO struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

type RangeCountDTO struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// DashboardStatsDTO mirrors /api/reports/dashboard/stats. Absent fields stay
// nil so they can be told apart from zero.
type DashboardStatsDTO struct {
	TotalResumes       *int              `json:"total_resumes"`
	TotalScreened      *int              `json:"total_screened"`
	TotalInterviews    *int              `json:"total_interviews"`
	AverageScore       *float64          `json:"average_score"`
	ExcellentMatches   *int              `json:"excellent_matches"`
	TopCandidates      []TopCandidateDTO `json:"top_candidates"`
	SkillsDistribution []SkillCountDTO   `json:"skills_distribution"`
	ScoreDistribution  []RangeCountDTO   `json:"score_distribution"`
}

type ApplicationDTO struct {
	ID          string    `json:"id"`
	CandidateID string    `json:"candidate_id"`
	JobID       string    `json:"job_id"`
	ResumeID    string    `json:"resume_id"`
	Status      string    `json:"status"`
	AppliedAt   time.Time `json:"applied_at"`
}

type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type ChatResponse struct {
	ConversationID string           `json:"conversation_id"`
	Message        string           `json:"message"`
	Title          string           `json:"title"`
	Sources        []map[string]any `json:"sources"`
}

// ResumeFields are the optional descriptive fields sent with an upload.
type ResumeFields struct {
	Name       string
	Email      string
	Phone      string
	Skills     []string
	Education  string
	Experience string
}
