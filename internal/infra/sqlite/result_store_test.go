package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"bias-assessment-service/internal/domain"
)

func openTestStore(t *testing.T) *ResultStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "results.db")
	store, err := Open(context.Background(), dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestResultStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	saved, err := store.Save(ctx, domain.AssessmentResult{
		SessionID:      "s-1",
		Answers:        domain.AnswerSet{1, 1, 0},
		TotalScore:     67,
		CategoryScores: domain.CategoryScores{"Decision Making": 50, "Workplace Scenarios": 100},
		CompletedAt:    "2024-05-01T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID != 1 {
		t.Fatalf("expected id 1, got %d", saved.ID)
	}

	got, err := store.FindBySessionID(ctx, "s-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != saved.ID || got.TotalScore != 67 || got.CompletedAt != "2024-05-01T10:00:00Z" {
		t.Fatalf("unexpected result %+v", got)
	}
	if len(got.Answers) != 3 || got.Answers[2] != 0 {
		t.Fatalf("unexpected answers %v", got.Answers)
	}
	if got.CategoryScores["Decision Making"] != 50 || len(got.CategoryScores) != 2 {
		t.Fatalf("unexpected category scores %v", got.CategoryScores)
	}
}

func TestResultStoreDuplicateSessionReturnsFirst(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for _, total := range []int{30, 90} {
		if _, err := store.Save(ctx, domain.AssessmentResult{
			SessionID:      "dup",
			Answers:        domain.AnswerSet{0},
			TotalScore:     total,
			CategoryScores: domain.CategoryScores{"Decision Making": total},
			CompletedAt:    "2024-05-01T10:00:00Z",
		}); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	got, err := store.FindBySessionID(ctx, "dup")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.TotalScore != 30 {
		t.Fatalf("expected first saved result, got %+v", got)
	}
}

func TestResultStoreNotFound(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.FindBySessionID(context.Background(), "missing"); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
