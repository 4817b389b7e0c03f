// Package sqlite stores assessment results in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"bias-assessment-service/internal/domain"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS assessment_results (
  id              INTEGER PRIMARY KEY AUTOINCREMENT,
  session_id      TEXT    NOT NULL,
  answers         TEXT    NOT NULL,
  total_score     INTEGER NOT NULL,
  category_scores TEXT    NOT NULL,
  completed_at    TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS assessment_results_session_id_idx ON assessment_results (session_id, id);
`

// ResultStore persists results with database/sql over modernc.org/sqlite.
type ResultStore struct {
	db *sql.DB
}

// Open connects to dsn and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*ResultStore, error) {
	if dsn == "" {
		dsn = "file:assessment.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows one writer; serialize through a single connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &ResultStore{db: db}, nil
}

// Close closes the database.
func (s *ResultStore) Close() error {
	return s.db.Close()
}

func (s *ResultStore) Save(ctx context.Context, result domain.AssessmentResult) (domain.AssessmentResult, error) {
	answers, err := json.Marshal(result.Answers)
	if err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("marshal answers: %w", err)
	}
	scores, err := json.Marshal(result.CategoryScores)
	if err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("marshal category scores: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `INSERT INTO assessment_results (session_id, answers, total_score, category_scores, completed_at)
		VALUES (?, ?, ?, ?, ?)`,
		result.SessionID, string(answers), result.TotalScore, string(scores), result.CompletedAt)
	if err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("insert result: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("result id: %w", err)
	}
	result.ID = id
	return result, nil
}

// FindBySessionID returns the lowest-id result for sessionID.
func (s *ResultStore) FindBySessionID(ctx context.Context, sessionID string) (domain.AssessmentResult, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, session_id, answers, total_score, category_scores, completed_at
		FROM assessment_results WHERE session_id = ? ORDER BY id ASC LIMIT 1`, sessionID)

	var r domain.AssessmentResult
	var answers, scores string
	if err := row.Scan(&r.ID, &r.SessionID, &answers, &r.TotalScore, &scores, &r.CompletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.AssessmentResult{}, domain.ErrResultNotFound
		}
		return domain.AssessmentResult{}, fmt.Errorf("select result: %w", err)
	}
	if err := json.Unmarshal([]byte(answers), &r.Answers); err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("unmarshal answers: %w", err)
	}
	if err := json.Unmarshal([]byte(scores), &r.CategoryScores); err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("unmarshal category scores: %w", err)
	}
	return r, nil
}
