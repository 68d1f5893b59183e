package screening

import (
	"fmt"
	"math"
	"strings"
	"time"

	"screening-sync/internal/dashboard"
	"screening-sync/internal/domain/candidate"
	"screening-sync/internal/domain/interview"
	"screening-sync/internal/domain/job"
	"screening-sync/internal/domain/scoring"
)

// NormalizeCandidate maps any of the backend's candidate shapes (resume
// listing, upload response, scored result) onto a Candidate. Scores are
// rounded half up and clamped.
func NormalizeCandidate(raw map[string]any) (candidate.Candidate, error) {
	parsed, _ := raw["parsed_data"].(map[string]any)

	c := candidate.Candidate{
		ID:         firstString(raw, "id", "resume_id", "_id"),
		Name:       firstString(raw, "name", "candidate_name"),
		Email:      firstString(raw, "email", "candidate_email"),
		Phone:      firstString(raw, "phone"),
		Education:  firstString(raw, "education"),
		Experience: firstString(raw, "experience"),
		Skills:     stringList(raw["skills"]),
	}
	if parsed != nil {
		if c.Name == "" {
			c.Name = firstString(parsed, "name")
		}
		if c.Email == "" {
			c.Email = firstString(parsed, "email")
		}
		if c.Phone == "" {
			c.Phone = firstString(parsed, "phone")
		}
		if c.Education == "" {
			c.Education = firstString(parsed, "education")
		}
		if c.Experience == "" {
			c.Experience = firstString(parsed, "experience")
		}
		if len(c.Skills) == 0 {
			c.Skills = stringList(parsed["skills"])
		}
	}
	if c.ID == "" {
		return candidate.Candidate{}, fmt.Errorf("%w: candidate without id", ErrInvalidPayload)
	}

	if v, ok := number(raw["score"]); ok {
		c.Score = clampScore(v)
	}
	matches, ok := raw["skill_matches"]
	if !ok {
		matches = raw["skillMatches"]
	}
	c.SkillMatches = skillMatchList(matches)
	if !c.IsScreened() {
		c.SkillMatches = nil
	}
	c.Provenance = candidate.ProvenanceConfirmed
	return c, nil
}

func NormalizeJob(dto JobDTO) (job.Job, error) {
	if strings.TrimSpace(dto.ID) == "" {
		return job.Job{}, fmt.Errorf("%w: job without id", ErrInvalidPayload)
	}
	st, err := job.ParseStatus(strings.ToLower(strings.TrimSpace(dto.Status)))
	if err != nil {
		st = job.StatusOpen
	}
	created := dto.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return job.Job{
		ID:             dto.ID,
		Title:          strings.TrimSpace(dto.Title),
		Description:    dto.Description,
		RequiredSkills: append([]string(nil), dto.RequiredSkills...),
		Experience:     dto.ExperienceRequired,
		Status:         st,
		CreatedAt:      created,
	}, nil
}

func NormalizeInterview(dto InterviewDTO) (interview.Interview, error) {
	if dto.ID == "" || dto.ResumeID == "" {
		return interview.Interview{}, fmt.Errorf("%w: interview without id or resume_id", ErrInvalidPayload)
	}
	iv := interview.Interview{
		ID:          dto.ID,
		CandidateID: dto.ResumeID,
		Transcript:  dto.Transcript,
		CreatedAt:   dto.CreatedAt,
	}
	if iv.CreatedAt.IsZero() {
		iv.CreatedAt = time.Now().UTC()
	}
	if a := dto.Analysis; a != nil {
		if a.SentimentScore != nil {
			iv.SentimentScore = *a.SentimentScore
		}
		if a.ConfidenceScore != nil {
			iv.ConfidenceScore = *a.ConfidenceScore
		}
		iv.ClarityScore = copyFloat(a.ClarityScore)
		iv.EnthusiasmScore = copyFloat(a.EnthusiasmScore)
		iv.ProfessionalismScore = copyFloat(a.ProfessionalismScore)
	}
	return iv, nil
}

// NormalizeDashboardStats converts the server summary into an aggregate
// hint. Fields the server left out stay nil.
func NormalizeDashboardStats(dto DashboardStatsDTO) dashboard.Aggregate {
	out := dashboard.Aggregate{
		TotalCandidates:  copyInt(dto.TotalResumes),
		TotalScreened:    copyInt(dto.TotalScreened),
		TotalInterviews:  copyInt(dto.TotalInterviews),
		AverageScore:     copyFloat(dto.AverageScore),
		ExcellentMatches: copyInt(dto.ExcellentMatches),
	}
	if dto.TopCandidates != nil {
		out.TopCandidates = make([]dashboard.TopCandidate, 0, len(dto.TopCandidates))
		for _, tc := range dto.TopCandidates {
			if tc.ID == "" {
				continue
			}
			score := 0
			if tc.Score != nil {
				score = clampScore(*tc.Score)
			}
			out.TopCandidates = append(out.TopCandidates, dashboard.TopCandidate{ID: tc.ID, Name: tc.Name, Email: tc.Email, Score: score})
		}
	}
	if dto.SkillsDistribution != nil {
		out.Skills = make([]dashboard.SkillCount, 0, len(dto.SkillsDistribution))
		for _, s := range dto.SkillsDistribution {
			out.Skills = append(out.Skills, dashboard.SkillCount{Skill: s.Skill, Count: s.Count})
		}
	}
	if dto.ScoreDistribution != nil {
		out.Buckets = make([]dashboard.BucketCount, 0, len(dto.ScoreDistribution))
		for _, r := range dto.ScoreDistribution {
			out.Buckets = append(out.Buckets, dashboard.BucketCount{Range: r.Range, Count: r.Count})
		}
	}
	return out
}

func clampScore(v float64) int {
	if math.IsNaN(v) {
		return scoring.MinScore
	}
	r := scoring.RoundHalfUp(v)
	if r < scoring.MinScore {
		return scoring.MinScore
	}
	if r > scoring.MaxScore {
		return scoring.MaxScore
	}
	return r
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// skillMatchList accepts plain skill names or {skill, is_matched} objects.
func skillMatchList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		switch x := it.(type) {
		case string:
			if s := strings.TrimSpace(x); s != "" {
				out = append(out, s)
			}
		case map[string]any:
			if matched, ok := x["is_matched"].(bool); ok && !matched {
				continue
			}
			if s := firstString(x, "skill", "name"); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
