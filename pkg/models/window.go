package models

import "time"

// Recommendation is the tier assigned to a scored window.
type Recommendation string

const (
	RecommendationExcellent Recommendation = "excellent"
	RecommendationGood      Recommendation = "good"
	RecommendationFair      Recommendation = "fair"
	RecommendationPoor      Recommendation = "poor"
)

// RecommendationForScore maps a composite score to its tier. Thresholds
// are fixed: >=80 excellent, >=60 good, >=40 fair, below that poor.
func RecommendationForScore(score float64) Recommendation {
	switch {
	case score >= 80:
		return RecommendationExcellent
	case score >= 60:
		return RecommendationGood
	case score >= 40:
		return RecommendationFair
	default:
		return RecommendationPoor
	}
}

// ScoredWindow is a forecast slot with its composite 0-100 desirability
// score. Immutable once produced.
type ScoredWindow struct {
	Slot           ForecastSlot   `json:"slot"`
	Score          float64        `json:"score"`
	Recommendation Recommendation `json:"recommendation"`
}

// SustainedWindow is a contiguous multi-slot block scored as one unit,
// used to schedule long-running work.
type SustainedWindow struct {
	StartTime      time.Time      `json:"start_time"`
	EndTime        time.Time      `json:"end_time"`
	Slots          int            `json:"slots"`
	Score          float64        `json:"score"`
	Recommendation Recommendation `json:"recommendation"`
}
