package assessment

import (
	"sort"

	"bias-assessment-service/internal/domain"
)

var (
	continueBuilding = domain.Recommendation{
		Severity:    domain.SeverityPositive,
		Title:       "Continue Building Awareness",
		Description: "Your bias awareness is strong. Keep practicing inclusive language and decision-making.",
	}
	foundationalLearning = domain.Recommendation{
		Severity:    domain.SeverityInformational,
		Title:       "Start with Foundational Learning",
		Description: "Begin with basic unconscious bias concepts and gradually build your awareness through practice.",
	}

	// categoryFocus holds the entry emitted when a category is the weakest one.
	categoryFocus = map[string]domain.Recommendation{
		"Social Interactions": {
			Severity:    domain.SeverityCaution,
			Title:       "Focus on Social Interactions",
			Description: "Consider exploring resources about microaggressions and inclusive communication in social settings.",
		},
		"Decision Making": {
			Severity:    domain.SeverityInformational,
			Title:       "Enhance Decision-Making Skills",
			Description: "Practice structured decision-making frameworks that help minimize bias in critical choices.",
		},
		"Workplace Scenarios": {
			Severity:    domain.SeverityCaution,
			Title:       "Strengthen Workplace Awareness",
			Description: "Focus on identifying and addressing bias in professional environments and team dynamics.",
		},
	}
)

// Recommend builds the ordered recommendation list for a result.
// Rules fire cumulatively: strong total, weakest category, low total.
func Recommend(totalScore int, categoryScores domain.CategoryScores) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0, 3)

	if totalScore >= ExcellentThreshold {
		recs = append(recs, continueBuilding)
	}

	if category, score, ok := LowestCategory(categoryScores); ok && score < ExcellentThreshold {
		if rec, known := categoryFocus[category]; known {
			recs = append(recs, rec)
		}
	}

	if totalScore < GoodThreshold {
		recs = append(recs, foundationalLearning)
	}
	return recs
}

// LowestCategory returns the category with the strictly lowest score below 100.
// Ties resolve to the lexically smallest name. ok is false when no category
// scores under 100.
func LowestCategory(categoryScores domain.CategoryScores) (category string, score int, ok bool) {
	names := make([]string, 0, len(categoryScores))
	for name := range categoryScores {
		names = append(names, name)
	}
	sort.Strings(names)

	score = 100
	for _, name := range names {
		if s := categoryScores[name]; s < score {
			category, score, ok = name, s, true
		}
	}
	return category, score, ok
}
