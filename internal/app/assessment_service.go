package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bias-assessment-service/internal/assessment"
	"bias-assessment-service/internal/domain"
)

// CatalogRepository loads the question and resource catalog (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context) (domain.Catalog, error)
}

// ResultRepository abstracts how submitted results are stored (in-memory, Redis, SQL).
type ResultRepository interface {
	// Save assigns an id and stores the result.
	Save(ctx context.Context, result domain.AssessmentResult) (domain.AssessmentResult, error)
	// FindBySessionID returns the earliest stored result for sessionID, or
	// domain.ErrResultNotFound.
	FindBySessionID(ctx context.Context, sessionID string) (domain.AssessmentResult, error)
}

// Submission is a completed answer set sent by a respondent.
type Submission struct {
	SessionID   string
	Answers     domain.AnswerSet
	CompletedAt string
}

// AssessmentService contains the assessment use cases.
type AssessmentService struct {
	catalog CatalogRepository
	results ResultRepository
	now     func() time.Time
}

func NewAssessmentService(catalog CatalogRepository, results ResultRepository) *AssessmentService {
	return NewAssessmentServiceWithClock(catalog, results, time.Now)
}

// NewAssessmentServiceWithClock allows deterministic completion timestamps in tests.
func NewAssessmentServiceWithClock(catalog CatalogRepository, results ResultRepository, now func() time.Time) *AssessmentService {
	return &AssessmentService{catalog: catalog, results: results, now: now}
}

// Questions returns the full ordered question list, answer keys included.
func (s *AssessmentService) Questions(ctx context.Context) ([]domain.Question, error) {
	c, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return c.Questions, nil
}

// PublicQuestions returns the ordered question list without answer keys.
func (s *AssessmentService) PublicQuestions(ctx context.Context) ([]domain.PublicQuestion, error) {
	questions, err := s.Questions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PublicQuestion, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.Public())
	}
	return out, nil
}

// Resources lists educational resources, filtered by exact type when typ is set.
// An unknown type yields an empty list.
func (s *AssessmentService) Resources(ctx context.Context, typ string) ([]domain.Resource, error) {
	c, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Resource, 0, len(c.Resources))
	for _, r := range c.Resources {
		if typ == "" || r.Type == typ {
			out = append(out, r)
		}
	}
	return out, nil
}

// ResourceTypes counts resources per type in first-seen order.
func (s *AssessmentService) ResourceTypes(ctx context.Context) ([]domain.ResourceTypeCount, error) {
	c, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.ResourceTypeCount
	index := make(map[string]int)
	for _, r := range c.Resources {
		i, ok := index[r.Type]
		if !ok {
			i = len(out)
			index[r.Type] = i
			out = append(out, domain.ResourceTypeCount{Type: r.Type})
		}
		out[i].Count++
	}
	return out, nil
}

// NewSessionID issues a handle for a not-yet-submitted attempt.
func (s *AssessmentService) NewSessionID() string {
	return assessment.NewSessionID()
}

// Submit scores the answers against the server's catalog and stores the result.
// Scores are always recomputed here; callers cannot supply them.
func (s *AssessmentService) Submit(ctx context.Context, sub Submission) (domain.AssessmentResult, error) {
	c, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		return domain.AssessmentResult{}, err
	}

	var violations []domain.FieldViolation
	// The session id is an opaque lookup key and is stored exactly as sent.
	if strings.TrimSpace(sub.SessionID) == "" {
		violations = append(violations, domain.FieldViolation{Field: "sessionId", Message: "is required"})
	}
	completedAt, err := s.completedAt(sub.CompletedAt)
	if err != nil {
		violations = append(violations, domain.FieldViolation{Field: "completedAt", Message: err.Error()})
	}
	violations = append(violations, answerViolations(sub.Answers, c.Questions)...)
	if len(violations) > 0 {
		return domain.AssessmentResult{}, &domain.ValidationError{Violations: violations}
	}

	scored, err := assessment.Score(sub.Answers, c.Questions)
	if err != nil {
		if errors.Is(err, domain.ErrAnswerCountMismatch) || errors.Is(err, domain.ErrAnswerOutOfRange) {
			return domain.AssessmentResult{}, domain.NewValidationError("answers", err)
		}
		return domain.AssessmentResult{}, err
	}

	answers := make(domain.AnswerSet, len(sub.Answers))
	copy(answers, sub.Answers)

	saved, err := s.results.Save(ctx, domain.AssessmentResult{
		SessionID:      sub.SessionID,
		Answers:        answers,
		TotalScore:     scored.TotalScore,
		CategoryScores: scored.CategoryScores,
		CompletedAt:    completedAt,
	})
	if err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("save result: %w", err)
	}
	return saved, nil
}

// Result looks up a stored result by session id.
func (s *AssessmentService) Result(ctx context.Context, sessionID string) (domain.AssessmentResult, error) {
	return s.results.FindBySessionID(ctx, sessionID)
}

// Summary returns a stored result with its interpretation and recommendations.
func (s *AssessmentService) Summary(ctx context.Context, sessionID string) (domain.ResultSummary, error) {
	result, err := s.results.FindBySessionID(ctx, sessionID)
	if err != nil {
		return domain.ResultSummary{}, err
	}
	return assessment.Summarize(result), nil
}

func (s *AssessmentService) completedAt(raw string) (string, error) {
	if raw == "" {
		return s.now().UTC().Format(time.RFC3339Nano), nil
	}
	if _, err := time.Parse(time.RFC3339, raw); err != nil {
		return "", errors.New("must be an RFC 3339 timestamp")
	}
	return raw, nil
}

// answerViolations reports every answer that cannot be scored against questions.
func answerViolations(answers domain.AnswerSet, questions []domain.Question) []domain.FieldViolation {
	if len(answers) != len(questions) {
		return []domain.FieldViolation{{
			Field:   "answers",
			Message: fmt.Sprintf("expected %d answers, got %d", len(questions), len(answers)),
		}}
	}
	var out []domain.FieldViolation
	for i, a := range answers {
		if a < 0 || a >= len(questions[i].Options) {
			out = append(out, domain.FieldViolation{
				Field:   fmt.Sprintf("answers[%d]", i),
				Message: fmt.Sprintf("must be between 0 and %d", len(questions[i].Options)-1),
			})
		}
	}
	return out
}
