package scoring

import (
	"math"
	"testing"
)

func TestCompose_NoInterviewFallback(t *testing.T) {
	for r := 0; r <= 100; r++ {
		if got := Compose(r, nil); got != r {
			t.Fatalf("Compose(%d, nil) = %d", r, got)
		}
	}
}

func TestCompose_FormulaAndRange(t *testing.T) {
	for r := 0; r <= 100; r += 5 {
		for s := 0; s <= 100; s += 10 {
			for c := 0; c <= 100; c += 10 {
				got := Compose(r, &InterviewScores{Sentiment: float64(s), Confidence: float64(c)})
				if got < 0 || got > 100 {
					t.Fatalf("Compose(%d,%d,%d) out of range: %d", r, s, c, got)
				}
				want := int(math.Floor(float64(6*r+2*s+2*c)/10 + 0.5))
				if got != want {
					t.Fatalf("Compose(%d,%d,%d) = %d, want %d", r, s, c, got, want)
				}
			}
		}
	}
}

func TestCompose_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		resume int
		iv     *InterviewScores
		want   int
	}{
		{name: "weighted blend", resume: 70, iv: &InterviewScores{Sentiment: 90, Confidence: 50}, want: 70},
		{name: "no interview", resume: 100, iv: nil, want: 100},
		{name: "zero resume still weighted", resume: 0, iv: &InterviewScores{Sentiment: 100, Confidence: 100}, want: 40},
		{name: "half rounds up", resume: 0, iv: &InterviewScores{Sentiment: 2.5, Confidence: 0}, want: 1},
		{name: "below half rounds down", resume: 0, iv: &InterviewScores{Sentiment: 2, Confidence: 0}, want: 0},
		{name: "no float drift", resume: 75, iv: &InterviewScores{Sentiment: 0, Confidence: 0}, want: 45},
		{name: "clamped above", resume: 140, iv: nil, want: 100},
		{name: "clamped below", resume: -3, iv: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compose(tt.resume, tt.iv); got != tt.want {
				t.Fatalf("Compose() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRecommend(t *testing.T) {
	if got := Recommend(Compose(100, nil)); got != HighlyRecommended {
		t.Fatalf("expected %q, got %q", HighlyRecommended, got)
	}
	if got := Recommend(60); got != Recommended {
		t.Fatalf("expected %q, got %q", Recommended, got)
	}
	if got := Recommend(45); got != Maybe {
		t.Fatalf("expected %q, got %q", Maybe, got)
	}
	if got := Recommend(44); got != NotRecommended {
		t.Fatalf("expected %q, got %q", NotRecommended, got)
	}
}

func TestBucketIndex(t *testing.T) {
	cases := map[int]int{0: 0, 44: 0, 45: 1, 59: 1, 60: 2, 74: 2, 75: 3, 100: 3}
	for score, want := range cases {
		if got := BucketIndex(score); got != want {
			t.Fatalf("BucketIndex(%d) = %d, want %d", score, got, want)
		}
	}
}
