package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bias-assessment-service/internal/domain"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// OpenBun opens a bun handle over the pg driver for dsn.
func OpenBun(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

type resultModel struct {
	bun.BaseModel `bun:"table:assessment_results"`

	ID             int64          `bun:"id,pk,autoincrement"`
	SessionID      string         `bun:"session_id,notnull"`
	Answers        []int          `bun:"answers,type:jsonb,notnull"`
	TotalScore     int            `bun:"total_score,notnull"`
	CategoryScores map[string]int `bun:"category_scores,type:jsonb,notnull"`
	CompletedAt    string         `bun:"completed_at,notnull"`
}

// ResultStore persists results in the assessment_results table.
type ResultStore struct {
	db *bun.DB
}

func NewResultStore(db *bun.DB) *ResultStore {
	return &ResultStore{db: db}
}

func (s *ResultStore) Save(ctx context.Context, result domain.AssessmentResult) (domain.AssessmentResult, error) {
	m := &resultModel{
		SessionID:      result.SessionID,
		Answers:        result.Answers,
		TotalScore:     result.TotalScore,
		CategoryScores: result.CategoryScores,
		CompletedAt:    result.CompletedAt,
	}
	if _, err := s.db.NewInsert().Model(m).Returning("id").Exec(ctx); err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("insert result: %w", err)
	}
	result.ID = m.ID
	return result, nil
}

// FindBySessionID returns the lowest-id result for sessionID.
func (s *ResultStore) FindBySessionID(ctx context.Context, sessionID string) (domain.AssessmentResult, error) {
	m := new(resultModel)
	err := s.db.NewSelect().
		Model(m).
		Where("session_id = ?", sessionID).
		OrderExpr("id ASC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AssessmentResult{}, domain.ErrResultNotFound
	}
	if err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("select result: %w", err)
	}
	return domain.AssessmentResult{
		ID:             m.ID,
		SessionID:      m.SessionID,
		Answers:        m.Answers,
		TotalScore:     m.TotalScore,
		CategoryScores: m.CategoryScores,
		CompletedAt:    m.CompletedAt,
	}, nil
}
