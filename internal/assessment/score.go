// Package assessment holds the pure scoring, interpretation and
// recommendation rules applied to a completed answer set.
package assessment

import (
	"fmt"

	"bias-assessment-service/internal/domain"
)

// Score grades answers positionally against questions.
//
// answers[i] is correct iff it equals questions[i].CorrectOptionIndex. The total
// and every category score are percentages rounded half up.
func Score(answers domain.AnswerSet, questions []domain.Question) (domain.ScoreResult, error) {
	if len(questions) == 0 {
		return domain.ScoreResult{}, domain.ErrEmptyCatalog
	}
	if len(answers) != len(questions) {
		return domain.ScoreResult{}, fmt.Errorf("%w: got %d answers for %d questions", domain.ErrAnswerCountMismatch, len(answers), len(questions))
	}

	type tally struct{ correct, total int }
	byCategory := make(map[string]*tally)
	correct := 0

	for i, q := range questions {
		answer := answers[i]
		if answer < 0 || answer >= len(q.Options) {
			return domain.ScoreResult{}, fmt.Errorf("%w: answer %d for question %d has %d options", domain.ErrAnswerOutOfRange, answer, q.ID, len(q.Options))
		}

		t, ok := byCategory[q.Category]
		if !ok {
			t = &tally{}
			byCategory[q.Category] = t
		}
		t.total++
		if answer == q.CorrectOptionIndex {
			correct++
			t.correct++
		}
	}

	scores := make(domain.CategoryScores, len(byCategory))
	for category, t := range byCategory {
		scores[category] = Percent(t.correct, t.total)
	}

	return domain.ScoreResult{
		TotalScore:     Percent(correct, len(questions)),
		CategoryScores: scores,
		CorrectCount:   correct,
	}, nil
}

// Percent returns round(100*part/whole) with halves rounded up.
// whole must be positive.
func Percent(part, whole int) int {
	return (200*part + whole) / (2 * whole)
}
