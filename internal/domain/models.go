package domain

import "fmt"

// Question models a single multiple-choice item of the assessment.
type Question struct {
	ID                 int      `json:"id" yaml:"id"`
	Category           string   `json:"category" yaml:"category"`
	Text               string   `json:"text" yaml:"text"`
	Options            []string `json:"options" yaml:"options"`
	CorrectOptionIndex int      `json:"correctAnswer" yaml:"correctAnswer"`
	Weight             int      `json:"weight" yaml:"weight"` // defaults to 1 if zero, not used in scoring
}

// PublicQuestion is the projection served to respondents without the answer key.
type PublicQuestion struct {
	ID       int      `json:"id"`
	Category string   `json:"category"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
	Weight   int      `json:"weight"`
}

// Public strips the answer key.
func (q Question) Public() PublicQuestion {
	return PublicQuestion{
		ID:       q.ID,
		Category: q.Category,
		Text:     q.Text,
		Options:  q.Options,
		Weight:   q.Weight,
	}
}

// Resource is a static educational resource shown after the assessment.
type Resource struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Type        string `json:"type" yaml:"type"` // article, video, podcast, organization
	Category    string `json:"category" yaml:"category"`
	URL         string `json:"url" yaml:"url"`
	ImageURL    string `json:"imageUrl,omitempty" yaml:"imageUrl"`
	Duration    string `json:"duration,omitempty" yaml:"duration"`
	Source      string `json:"source,omitempty" yaml:"source"`
}

// ResourceTypeCount reports how many resources carry a given type.
type ResourceTypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Catalog is the read-only question and resource set the service scores against.
type Catalog struct {
	Questions []Question `json:"questions" yaml:"questions"`
	Resources []Resource `json:"resources" yaml:"resources"`
}

// Validate rejects structurally broken catalogs. Scoring relies on these invariants.
func (c Catalog) Validate() error {
	if len(c.Questions) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[int]struct{}, len(c.Questions))
	for i, q := range c.Questions {
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %d", ErrInvalidCatalog, q.ID)
		}
		seen[q.ID] = struct{}{}
		if q.Category == "" {
			return fmt.Errorf("%w: question %d has no category", ErrInvalidCatalog, q.ID)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %d needs at least 2 options", ErrInvalidCatalog, q.ID)
		}
		if q.CorrectOptionIndex < 0 || q.CorrectOptionIndex >= len(q.Options) {
			return fmt.Errorf("%w: question at position %d has correct index %d out of range", ErrInvalidCatalog, i, q.CorrectOptionIndex)
		}
	}
	return nil
}

// Categories returns the distinct question categories in declaration order.
func (c Catalog) Categories() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, q := range c.Questions {
		if _, ok := seen[q.Category]; ok {
			continue
		}
		seen[q.Category] = struct{}{}
		out = append(out, q.Category)
	}
	return out
}

// AnswerSet holds the selected option index per question, positional with the catalog.
type AnswerSet []int

// CategoryScores maps a category name to its rounded percentage score.
type CategoryScores map[string]int

// ScoreResult is the outcome of scoring one complete AnswerSet.
type ScoreResult struct {
	TotalScore     int            `json:"totalScore"`
	CategoryScores CategoryScores `json:"categoryScores"`
	CorrectCount   int            `json:"correctCount"`
}

// AssessmentResult is the persisted record of a submission.
type AssessmentResult struct {
	ID             int64          `json:"id"`
	SessionID      string         `json:"sessionId"`
	Answers        AnswerSet      `json:"answers"`
	TotalScore     int            `json:"totalScore"`
	CategoryScores CategoryScores `json:"categoryScores"`
	CompletedAt    string         `json:"completedAt"`
}

// VisualTier drives presentation of an interpretation band.
type VisualTier string

const (
	TierHigh   VisualTier = "high"
	TierMedium VisualTier = "medium"
	TierLow    VisualTier = "low"
)

// Interpretation is the qualitative band for a total score.
type Interpretation struct {
	Level       string     `json:"level"`
	Description string     `json:"description"`
	VisualTier  VisualTier `json:"visualTier"`
}

// Severity is used for styling recommendations only.
type Severity string

const (
	SeverityPositive      Severity = "positive"
	SeverityCaution       Severity = "caution"
	SeverityInformational Severity = "informational"
)

// Recommendation is one actionable entry shown with a result.
type Recommendation struct {
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

// ResultSummary bundles a stored result with its derived views.
type ResultSummary struct {
	Result          AssessmentResult `json:"result"`
	Interpretation  Interpretation   `json:"interpretation"`
	Recommendations []Recommendation `json:"recommendations"`
}
