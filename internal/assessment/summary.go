package assessment

import "bias-assessment-service/internal/domain"

// Summarize derives the interpretation and recommendations for a stored result.
func Summarize(result domain.AssessmentResult) domain.ResultSummary {
	return domain.ResultSummary{
		Result:          result,
		Interpretation:  Interpret(result.TotalScore),
		Recommendations: Recommend(result.TotalScore, result.CategoryScores),
	}
}
