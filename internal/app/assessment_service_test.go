package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"bias-assessment-service/internal/app"
	"bias-assessment-service/internal/catalog"
	"bias-assessment-service/internal/domain"
	"bias-assessment-service/internal/infra/memory"
)

func TestSubmitRecomputesAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	answers := seedAnswers(func(i int) bool { return true })
	saved, err := service.Submit(ctx, app.Submission{
		SessionID:   "session-1",
		Answers:     answers,
		CompletedAt: "2024-05-01T10:00:00.000Z",
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if saved.ID == 0 || saved.TotalScore != 100 {
		t.Fatalf("unexpected saved result %+v", saved)
	}

	got, err := service.Result(ctx, "session-1")
	if err != nil {
		t.Fatalf("result failed: %v", err)
	}
	if got.TotalScore != saved.TotalScore || len(got.Answers) != len(answers) {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, saved)
	}
	for i := range answers {
		if got.Answers[i] != answers[i] {
			t.Fatalf("answer %d mismatch", i)
		}
	}
	for _, c := range []string{"Workplace Scenarios", "Social Interactions", "Decision Making"} {
		if got.CategoryScores[c] != 100 {
			t.Fatalf("expected %s=100, got %d", c, got.CategoryScores[c])
		}
	}
	if got.CompletedAt != "2024-05-01T10:00:00.000Z" {
		t.Fatalf("completedAt not preserved: %q", got.CompletedAt)
	}
}

func TestSubmitStampsCompletionTime(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	service := app.NewAssessmentServiceWithClock(
		memory.NewCatalogRepository(memory.NewStaticCatalogLoader(catalog.Seed()), time.Minute),
		memory.NewResultStore(),
		func() time.Time { return now },
	)

	saved, err := service.Submit(context.Background(), app.Submission{
		SessionID: "s",
		Answers:   seedAnswers(func(int) bool { return false }),
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if saved.CompletedAt != "2024-06-01T12:00:00Z" {
		t.Fatalf("unexpected completedAt %q", saved.CompletedAt)
	}
	if saved.TotalScore != 0 {
		t.Fatalf("expected 0, got %d", saved.TotalScore)
	}
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	_, err := service.Submit(ctx, app.Submission{SessionID: "s", Answers: domain.AnswerSet{1, 1}})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Violations[0].Field != "answers" {
		t.Fatalf("expected answers violation, got %v", err)
	}

	answers := seedAnswers(func(int) bool { return true })
	answers[2] = 9
	answers[7] = -1
	_, err = service.Submit(ctx, app.Submission{SessionID: " ", Answers: answers, CompletedAt: "yesterday"})
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := map[string]bool{}
	for _, v := range verr.Violations {
		fields[v.Field] = true
	}
	for _, f := range []string{"sessionId", "completedAt", "answers[2]", "answers[7]"} {
		if !fields[f] {
			t.Fatalf("expected violation for %s, got %+v", f, verr.Violations)
		}
	}

	if _, err := service.Result(ctx, "s"); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("invalid submissions must not be stored, got %v", err)
	}
}

func TestSummaryScenario(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	// Miss every Social Interactions question except one; everything else right.
	questions, _ := service.Questions(ctx)
	answers := make(domain.AnswerSet, len(questions))
	social := 0
	for i, q := range questions {
		answers[i] = q.CorrectOptionIndex
		if q.Category == "Social Interactions" {
			social++
			if social > 1 {
				answers[i] = (q.CorrectOptionIndex + 1) % len(q.Options)
			}
		}
	}
	if _, err := service.Submit(ctx, app.Submission{SessionID: "mixed", Answers: answers}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	summary, err := service.Summary(ctx, "mixed")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	// 11/15 = 73, social 1/5 = 20
	if summary.Result.TotalScore != 73 || summary.Result.CategoryScores["Social Interactions"] != 20 {
		t.Fatalf("unexpected scores %+v", summary.Result)
	}
	if summary.Interpretation.Level != "Good Awareness Level" {
		t.Fatalf("unexpected band %+v", summary.Interpretation)
	}
	if len(summary.Recommendations) != 1 || summary.Recommendations[0].Title != "Focus on Social Interactions" {
		t.Fatalf("unexpected recommendations %+v", summary.Recommendations)
	}

	if _, err := service.Summary(ctx, "nope"); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestQuestionsAndResources(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	public, err := service.PublicQuestions(ctx)
	if err != nil || len(public) != 15 {
		t.Fatalf("public questions: %v (%d)", err, len(public))
	}

	all, _ := service.Resources(ctx, "")
	if len(all) != 6 {
		t.Fatalf("expected 6 resources, got %d", len(all))
	}
	videos, _ := service.Resources(ctx, "video")
	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}
	none, _ := service.Resources(ctx, "webinar")
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", none)
	}

	types, _ := service.ResourceTypes(ctx)
	want := []domain.ResourceTypeCount{
		{Type: "article", Count: 2},
		{Type: "video", Count: 2},
		{Type: "podcast", Count: 1},
		{Type: "organization", Count: 1},
	}
	if len(types) != len(want) {
		t.Fatalf("unexpected type counts %+v", types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("type %d: got %+v want %+v", i, types[i], want[i])
		}
	}
}

func TestNewSessionIDIsUnique(t *testing.T) {
	service := newTestService()
	if a, b := service.NewSessionID(), service.NewSessionID(); a == "" || a == b {
		t.Fatalf("expected distinct ids, got %q and %q", a, b)
	}
}

func newTestService() *app.AssessmentService {
	catalogRepo := memory.NewCatalogRepository(memory.NewStaticCatalogLoader(catalog.Seed()), 5*time.Minute)
	return app.NewAssessmentService(catalogRepo, memory.NewResultStore())
}

func seedAnswers(correct func(i int) bool) domain.AnswerSet {
	questions := catalog.Seed().Questions
	answers := make(domain.AnswerSet, len(questions))
	for i, q := range questions {
		if correct(i) {
			answers[i] = q.CorrectOptionIndex
		} else {
			answers[i] = (q.CorrectOptionIndex + 1) % len(q.Options)
		}
	}
	return answers
}

func TestSubmitKeepsSessionIDVerbatim(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	saved, err := service.Submit(ctx, app.Submission{
		SessionID: " sess-1 ",
		Answers:   seedAnswers(func(i int) bool { return true }),
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if saved.SessionID != " sess-1 " {
		t.Fatalf("expected session id stored verbatim, got %q", saved.SessionID)
	}

	got, err := service.Result(ctx, " sess-1 ")
	if err != nil {
		t.Fatalf("lookup by submitted id: %v", err)
	}
	if got.ID != saved.ID {
		t.Fatalf("expected result %d, got %d", saved.ID, got.ID)
	}
	if _, err := service.Result(ctx, "sess-1"); !errors.Is(err, domain.ErrResultNotFound) {
		t.Fatalf("expected trimmed id to miss, got %v", err)
	}

	_, err = service.Submit(ctx, app.Submission{SessionID: "   ", Answers: seedAnswers(func(int) bool { return true })})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Violations[0].Field != "sessionId" {
		t.Fatalf("expected sessionId violation for blank id, got %v", err)
	}
}
