package assessment

import "bias-assessment-service/internal/domain"

const (
	// ExcellentThreshold is the lowest score in the top band.
	ExcellentThreshold = 80
	// GoodThreshold is the lowest score in the middle band.
	GoodThreshold = 60
)

var (
	excellentBand = domain.Interpretation{
		Level:       "Excellent Awareness Level",
		Description: "You demonstrate strong awareness of unconscious bias and consistently make inclusive decisions. Keep up the great work!",
		VisualTier:  domain.TierHigh,
	}
	goodBand = domain.Interpretation{
		Level:       "Good Awareness Level",
		Description: "You show solid understanding of unconscious bias with room for continued growth in certain areas.",
		VisualTier:  domain.TierMedium,
	}
	developingBand = domain.Interpretation{
		Level:       "Developing Awareness",
		Description: "This is a great starting point for your bias awareness journey. Focus on the recommended resources to continue growing.",
		VisualTier:  domain.TierLow,
	}
)

// Interpret maps a total score to its band. Scores outside [0,100] are clamped first.
func Interpret(totalScore int) domain.Interpretation {
	switch score := clamp(totalScore); {
	case score >= ExcellentThreshold:
		return excellentBand
	case score >= GoodThreshold:
		return goodBand
	default:
		return developingBand
	}
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
