package dashboard

import (
	"math"
	"sort"
	"strings"
	"time"

	"screening-sync/internal/domain/candidate"
	"screening-sync/internal/domain/scoring"
)

const (
	DefaultTopThreshold = 75
	DefaultTopLimit     = 5
	SkillsLimit         = 10
)

type Source string

const (
	SourceServer Source = "server"
	SourceLocal  Source = "local"
)

const (
	MetricTotalCandidates  = "total_candidates"
	MetricTotalScreened    = "total_screened"
	MetricTotalInterviews  = "total_interviews"
	MetricAverageScore     = "average_score"
	MetricExcellentMatches = "excellent_matches"
	MetricTopCandidates    = "top_candidates"
	MetricSkills           = "skills_distribution"
	MetricBuckets          = "score_distribution"
)

type TopCandidate struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Score int    `json:"score"`
}

type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

type BucketCount struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// Aggregate is a server-computed summary. Nil fields were not provided.
// StoreVersion is the local store version when the fetch started.
type Aggregate struct {
	TotalCandidates  *int           `json:"total_candidates,omitempty"`
	TotalScreened    *int           `json:"total_screened,omitempty"`
	TotalInterviews  *int           `json:"total_interviews,omitempty"`
	AverageScore     *float64       `json:"average_score,omitempty"`
	ExcellentMatches *int           `json:"excellent_matches,omitempty"`
	TopCandidates    []TopCandidate `json:"top_candidates,omitempty"`
	Skills           []SkillCount   `json:"skills_distribution,omitempty"`
	Buckets          []BucketCount  `json:"score_distribution,omitempty"`
	StoreVersion     uint64         `json:"store_version"`
	FetchedAt        time.Time      `json:"fetched_at"`
}

type Input struct {
	Candidates []candidate.Candidate
	// FinalScores holds the composite score per candidate id. Candidates
	// missing from the map fall back to their resume score.
	FinalScores    map[string]int
	InterviewCount int
	HasLocalData   bool
	StoreVersion   uint64
	Hint           *Aggregate
	TopThreshold   int
	TopLimit       int
}

type Stats struct {
	TotalCandidates  int               `json:"total_resumes"`
	TotalScreened    int               `json:"total_screened"`
	TotalInterviews  int               `json:"total_interviews"`
	AverageScore     float64           `json:"average_score"`
	ExcellentMatches int               `json:"excellent_matches"`
	GoodMatches      int               `json:"good_matches"`
	FairMatches      int               `json:"fair_matches"`
	LowMatches       int               `json:"low_matches"`
	TopCandidates    []TopCandidate    `json:"top_candidates"`
	Skills           []SkillCount      `json:"skills_distribution"`
	Buckets          []BucketCount     `json:"score_distribution"`
	Sources          map[string]Source `json:"sources"`
}

// Trusted reports whether a server aggregate may be shown for the given
// store state.
func Trusted(hint *Aggregate, hasLocalData bool, version uint64) bool {
	return hint != nil && hasLocalData && hint.StoreVersion == version
}

// Compute projects the store into dashboard numbers. Server values are used
// metric by metric only when Trusted holds; everything else is derived
// locally.
func Compute(in Input) Stats {
	local := computeLocal(in)
	if !Trusted(in.Hint, in.HasLocalData, in.StoreVersion) {
		return local
	}

	out := local
	h := in.Hint
	if h.TotalCandidates != nil {
		out.TotalCandidates = *h.TotalCandidates
		out.Sources[MetricTotalCandidates] = SourceServer
	}
	if h.TotalScreened != nil {
		out.TotalScreened = *h.TotalScreened
		out.Sources[MetricTotalScreened] = SourceServer
	}
	if h.TotalInterviews != nil {
		out.TotalInterviews = *h.TotalInterviews
		out.Sources[MetricTotalInterviews] = SourceServer
	}
	if h.AverageScore != nil {
		out.AverageScore = round1(*h.AverageScore)
		out.Sources[MetricAverageScore] = SourceServer
	}
	if h.ExcellentMatches != nil {
		out.ExcellentMatches = *h.ExcellentMatches
		out.Sources[MetricExcellentMatches] = SourceServer
	}
	if h.TopCandidates != nil {
		out.TopCandidates = append([]TopCandidate(nil), h.TopCandidates...)
		out.Sources[MetricTopCandidates] = SourceServer
	}
	if h.Skills != nil {
		out.Skills = append([]SkillCount(nil), h.Skills...)
		out.Sources[MetricSkills] = SourceServer
	}
	if h.Buckets != nil {
		out.Buckets = append([]BucketCount(nil), h.Buckets...)
		out.Sources[MetricBuckets] = SourceServer
		out.LowMatches, out.FairMatches, out.GoodMatches = bucketTiers(out.Buckets)
	}
	return out
}

func computeLocal(in Input) Stats {
	threshold := in.TopThreshold
	if threshold <= 0 {
		threshold = DefaultTopThreshold
	}
	limit := in.TopLimit
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	out := Stats{
		TotalCandidates: len(in.Candidates),
		TotalInterviews: in.InterviewCount,
		TopCandidates:   make([]TopCandidate, 0),
		Skills:          make([]SkillCount, 0),
		Buckets:         make([]BucketCount, len(scoring.Buckets)),
		Sources:         make(map[string]Source, 8),
	}
	for i, b := range scoring.Buckets {
		out.Buckets[i] = BucketCount{Range: b.Label}
	}
	for _, m := range []string{
		MetricTotalCandidates, MetricTotalScreened, MetricTotalInterviews, MetricAverageScore,
		MetricExcellentMatches, MetricTopCandidates, MetricSkills, MetricBuckets,
	} {
		out.Sources[m] = SourceLocal
	}

	skillCounts := make(map[string]int)
	skillNames := make(map[string]string)
	sum := 0
	top := make([]TopCandidate, 0)
	for _, c := range in.Candidates {
		for _, sk := range c.Skills {
			key := strings.ToLower(strings.TrimSpace(sk))
			if key == "" {
				continue
			}
			if _, ok := skillNames[key]; !ok {
				skillNames[key] = strings.TrimSpace(sk)
			}
			skillCounts[key]++
		}

		if !c.IsScreened() {
			continue
		}
		score := finalScore(in.FinalScores, c)
		out.TotalScreened++
		sum += score
		if score >= scoring.ThresholdHighlyRecommended {
			out.ExcellentMatches++
		}
		if idx := scoring.BucketIndex(score); idx >= 0 {
			out.Buckets[idx].Count++
		}
		if score >= threshold {
			top = append(top, TopCandidate{ID: c.ID, Name: c.Name, Email: c.Email, Score: score})
		}
	}

	if out.TotalScreened > 0 {
		out.AverageScore = round1(float64(sum) / float64(out.TotalScreened))
	}
	out.LowMatches, out.FairMatches, out.GoodMatches = bucketTiers(out.Buckets)

	sort.SliceStable(top, func(i, j int) bool {
		if top[i].Score != top[j].Score {
			return top[i].Score > top[j].Score
		}
		return top[i].ID < top[j].ID
	})
	if len(top) > limit {
		top = top[:limit]
	}
	out.TopCandidates = top

	for key, n := range skillCounts {
		out.Skills = append(out.Skills, SkillCount{Skill: skillNames[key], Count: n})
	}
	sort.Slice(out.Skills, func(i, j int) bool {
		if out.Skills[i].Count != out.Skills[j].Count {
			return out.Skills[i].Count > out.Skills[j].Count
		}
		return out.Skills[i].Skill < out.Skills[j].Skill
	})
	if len(out.Skills) > SkillsLimit {
		out.Skills = out.Skills[:SkillsLimit]
	}
	return out
}

func finalScore(scores map[string]int, c candidate.Candidate) int {
	if v, ok := scores[c.ID]; ok {
		return v
	}
	return c.Score
}

// bucketTiers reads low, fair and good counts from the first three buckets.
func bucketTiers(b []BucketCount) (low, fair, good int) {
	if len(b) > 0 {
		low = b[0].Count
	}
	if len(b) > 1 {
		fair = b[1].Count
	}
	if len(b) > 2 {
		good = b[2].Count
	}
	return low, fair, good
}

func round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
