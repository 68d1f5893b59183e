package scoring

type Recommendation string

const (
	HighlyRecommended Recommendation = "Highly Recommended"
	Recommended       Recommendation = "Recommended"
	Maybe             Recommendation = "Maybe"
	NotRecommended    Recommendation = "Not Recommended"
)

func Recommend(score int) Recommendation {
	switch {
	case score >= ThresholdHighlyRecommended:
		return HighlyRecommended
	case score >= ThresholdRecommended:
		return Recommended
	case score >= ThresholdMaybe:
		return Maybe
	default:
		return NotRecommended
	}
}

type Bucket struct {
	Label string
	Min   int
	Max   int
}

var Buckets = []Bucket{
	{Label: "0-44", Min: 0, Max: 44},
	{Label: "45-59", Min: 45, Max: 59},
	{Label: "60-74", Min: 60, Max: 74},
	{Label: "75-100", Min: 75, Max: 100},
}

// BucketIndex returns the position of score in Buckets.
func BucketIndex(score int) int {
	score = clamp(score)
	for i, b := range Buckets {
		if score >= b.Min && score <= b.Max {
			return i
		}
	}
	return 0
}
