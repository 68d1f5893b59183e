package scoring

import "math"

const (
	MinScore = 0
	MaxScore = 100

	ThresholdHighlyRecommended = 75
	ThresholdRecommended       = 60
	ThresholdMaybe             = 45
)

type InterviewScores struct {
	Sentiment  float64
	Confidence float64
}

// Compose blends a resume match score with the resolved interview, if any:
// round(resume*0.6 + sentiment*0.2 + confidence*0.2), half up, clamped.
func Compose(resume int, iv *InterviewScores) int {
	if iv == nil {
		return clamp(resume)
	}
	// Weighted in tenths so integer inputs land exactly on .5.
	total := (6*float64(resume) + 2*iv.Sentiment + 2*iv.Confidence) / 10
	return clamp(RoundHalfUp(total))
}

func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func clamp(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
