package postgres

import (
	"context"
	"fmt"

	"bias-assessment-service/internal/domain"
	"github.com/uptrace/bun"
)

type questionModel struct {
	bun.BaseModel `bun:"table:assessment_questions"`

	ID            int      `bun:"id,pk"`
	Category      string   `bun:"category,notnull"`
	Text          string   `bun:"text,notnull"`
	Options       []string `bun:"options,type:jsonb,notnull"`
	CorrectAnswer int      `bun:"correct_answer,notnull"`
	Weight        int      `bun:"weight,notnull"`
}

type resourceModel struct {
	bun.BaseModel `bun:"table:educational_resources"`

	ID          int    `bun:"id,pk"`
	Title       string `bun:"title,notnull"`
	Description string `bun:"description,notnull"`
	Type        string `bun:"type,notnull"`
	Category    string `bun:"category,notnull"`
	URL         string `bun:"url,notnull"`
	ImageURL    string `bun:"image_url,nullzero"`
	Duration    string `bun:"duration,nullzero"`
	Source      string `bun:"source,nullzero"`
}

// SeedCatalog upserts every question and resource of c in one transaction.
func SeedCatalog(ctx context.Context, db *bun.DB, c domain.Catalog) error {
	if err := c.Validate(); err != nil {
		return err
	}

	questions := make([]questionModel, 0, len(c.Questions))
	for _, q := range c.Questions {
		questions = append(questions, questionModel{
			ID:            q.ID,
			Category:      q.Category,
			Text:          q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectOptionIndex,
			Weight:        q.Weight,
		})
	}
	resources := make([]resourceModel, 0, len(c.Resources))
	for _, r := range c.Resources {
		resources = append(resources, resourceModel{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Type:        r.Type,
			Category:    r.Category,
			URL:         r.URL,
			ImageURL:    r.ImageURL,
			Duration:    r.Duration,
			Source:      r.Source,
		})
	}

	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(&questions).
			On("CONFLICT (id) DO UPDATE").
			Set("category = EXCLUDED.category").
			Set("text = EXCLUDED.text").
			Set("options = EXCLUDED.options").
			Set("correct_answer = EXCLUDED.correct_answer").
			Set("weight = EXCLUDED.weight").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("seed questions: %w", err)
		}
		if len(resources) == 0 {
			return nil
		}
		_, err = tx.NewInsert().
			Model(&resources).
			On("CONFLICT (id) DO UPDATE").
			Set("title = EXCLUDED.title").
			Set("description = EXCLUDED.description").
			Set("type = EXCLUDED.type").
			Set("category = EXCLUDED.category").
			Set("url = EXCLUDED.url").
			Set("image_url = EXCLUDED.image_url").
			Set("duration = EXCLUDED.duration").
			Set("source = EXCLUDED.source").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("seed resources: %w", err)
		}
		return nil
	})
}
