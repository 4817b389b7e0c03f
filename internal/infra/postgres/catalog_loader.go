package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"bias-assessment-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CatalogLoader loads questions and resources from Postgres in id order.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context) (domain.Catalog, error) {
	questions, err := l.loadQuestions(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}
	resources, err := l.loadResources(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}
	return domain.Catalog{Questions: questions, Resources: resources}, nil
}

func (l *CatalogLoader) loadQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, category, text, options, correct_answer, weight FROM assessment_questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		var q domain.Question
		var rawOptions []byte
		if err := rows.Scan(&q.ID, &q.Category, &q.Text, &rawOptions, &q.CorrectOptionIndex, &q.Weight); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(rawOptions, &q.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options of question %d: %w", q.ID, err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (l *CatalogLoader) loadResources(ctx context.Context) ([]domain.Resource, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, title, description, type, category, url,
		COALESCE(image_url, ''), COALESCE(duration, ''), COALESCE(source, '')
		FROM educational_resources ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}
	defer rows.Close()

	var out []domain.Resource
	for rows.Next() {
		var r domain.Resource
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Type, &r.Category, &r.URL, &r.ImageURL, &r.Duration, &r.Source); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
