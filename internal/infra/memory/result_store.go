package memory

import (
	"context"
	"sync"

	"bias-assessment-service/internal/domain"
)

// ResultStore is an in-memory implementation of app.ResultRepository.
// Ids auto-increment from 1; session ids are indexed in insertion order.
type ResultStore struct {
	mu        sync.RWMutex
	nextID    int64
	results   map[int64]domain.AssessmentResult
	bySession map[string][]int64
}

func NewResultStore() *ResultStore {
	return &ResultStore{
		nextID:    1,
		results:   make(map[int64]domain.AssessmentResult),
		bySession: make(map[string][]int64),
	}
}

func (s *ResultStore) Save(_ context.Context, result domain.AssessmentResult) (domain.AssessmentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result.ID = s.nextID
	s.nextID++
	result = cloneResult(result)
	s.results[result.ID] = result
	s.bySession[result.SessionID] = append(s.bySession[result.SessionID], result.ID)
	return cloneResult(result), nil
}

// FindBySessionID returns the first result saved under sessionID.
func (s *ResultStore) FindBySessionID(_ context.Context, sessionID string) (domain.AssessmentResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.bySession[sessionID]
	if len(ids) == 0 {
		return domain.AssessmentResult{}, domain.ErrResultNotFound
	}
	return cloneResult(s.results[ids[0]]), nil
}

// cloneResult keeps stored records immutable from the caller's side.
func cloneResult(r domain.AssessmentResult) domain.AssessmentResult {
	answers := make(domain.AnswerSet, len(r.Answers))
	copy(answers, r.Answers)
	scores := make(domain.CategoryScores, len(r.CategoryScores))
	for k, v := range r.CategoryScores {
		scores[k] = v
	}
	r.Answers = answers
	r.CategoryScores = scores
	return r
}
