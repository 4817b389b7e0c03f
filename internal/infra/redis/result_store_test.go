package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"bias-assessment-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestResultStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewResultStore(newClient(mr), 0)
	ctx := context.Background()

	saved, err := store.Save(ctx, sampleResult("s-1", 73))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID != 1 {
		t.Fatalf("expected id 1, got %d", saved.ID)
	}
	if !mr.Exists("assessment:result:1") || !mr.Exists("assessment:session:s-1") {
		t.Fatalf("expected redis keys to be set")
	}

	got, err := store.FindBySessionID(ctx, "s-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != 1 || got.TotalScore != 73 || len(got.Answers) != 3 || got.CategoryScores["Social Interactions"] != 20 {
		t.Fatalf("unexpected result %+v", got)
	}

	if _, err := store.FindBySessionID(ctx, "missing"); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestResultStoreDuplicateSessionReturnsFirst(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewResultStore(newClient(mr), 0)
	ctx := context.Background()
	_, _ = store.Save(ctx, sampleResult("dup", 20))
	_, _ = store.Save(ctx, sampleResult("dup", 95))

	got, err := store.FindBySessionID(ctx, "dup")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != 1 || got.TotalScore != 20 {
		t.Fatalf("expected first result, got %+v", got)
	}
}

func TestResultStoreExpiresRecords(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewResultStore(newClient(mr), time.Hour)
	ctx := context.Background()
	_, _ = store.Save(ctx, sampleResult("s-ttl", 50))

	mr.FastForward(2 * time.Hour)
	if _, err := store.FindBySessionID(ctx, "s-ttl"); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected expired result to be gone, got %v", err)
	}
}

func sampleResult(sessionID string, total int) domain.AssessmentResult {
	return domain.AssessmentResult{
		SessionID:      sessionID,
		Answers:        domain.AnswerSet{0, 1, 1},
		TotalScore:     total,
		CategoryScores: domain.CategoryScores{"Social Interactions": 20, "Decision Making": 100},
		CompletedAt:    "2024-05-01T10:00:00Z",
	}
}
