package queries

import (
	"context"
	"testing"

	"ovation/contexts/live-show/question-registry/adapters/memory"
	"ovation/contexts/live-show/question-registry/domain/entities"
)

func seededCatalog(t *testing.T) CatalogUseCase {
	t.Helper()
	store := memory.NewStore()
	store.SetQuestion(entities.Question{
		QuestionID: "q-stage", EventID: "event-1", Text: "Stage presence",
		Type: entities.QuestionTypeRating, Target: entities.QuestionTargetBoth, DisplayOrder: 0,
	})
	store.SetQuestion(entities.Question{
		QuestionID: "q-technique", EventID: "event-1", Text: "Technique",
		Type: entities.QuestionTypeRating, Target: entities.QuestionTargetJudge, DisplayOrder: 1,
	})
	store.SetQuestion(entities.Question{
		QuestionID: "q-crowd", EventID: "event-1", Text: "Crowd energy",
		Type: entities.QuestionTypeRating, Target: entities.QuestionTargetFan, DisplayOrder: 2,
	})
	store.SetQuestion(entities.Question{
		QuestionID: "q-feedback", EventID: "event-1", Text: "Feedback",
		Type: entities.QuestionTypeText, Target: entities.QuestionTargetJudge, DisplayOrder: 3,
	})
	store.SetQuestion(entities.Question{
		QuestionID: "q-other", EventID: "event-2", Text: "Different event",
		Type: entities.QuestionTypeRating, Target: entities.QuestionTargetBoth, DisplayOrder: 0,
	})
	return CatalogUseCase{Questions: store}
}

func questionIDs(questions []entities.Question) []string {
	ids := make([]string, 0, len(questions))
	for _, question := range questions {
		ids = append(ids, question.QuestionID)
	}
	return ids
}

func TestEventQuestionsFiltersByBucket(t *testing.T) {
	uc := seededCatalog(t)
	ctx := context.Background()

	fan, err := uc.EventQuestions(ctx, "event-1", entities.AudienceBucketFan, false)
	if err != nil {
		t.Fatalf("fan catalog: %v", err)
	}
	if got := questionIDs(fan); len(got) != 2 || got[0] != "q-stage" || got[1] != "q-crowd" {
		t.Fatalf("expected fan catalog [q-stage q-crowd], got %v", got)
	}

	judge, err := uc.EventQuestions(ctx, "event-1", entities.AudienceBucketJudge, false)
	if err != nil {
		t.Fatalf("judge catalog: %v", err)
	}
	if got := questionIDs(judge); len(got) != 3 || got[0] != "q-stage" || got[1] != "q-technique" || got[2] != "q-feedback" {
		t.Fatalf("expected judge catalog [q-stage q-technique q-feedback], got %v", got)
	}
}

func TestEventQuestionsSeeAllIgnoresBucket(t *testing.T) {
	uc := seededCatalog(t)
	all, err := uc.EventQuestions(context.Background(), "event-1", entities.AudienceBucketFan, true)
	if err != nil {
		t.Fatalf("admin catalog: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected the full catalog for seeAll, got %v", questionIDs(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].DisplayOrder > all[i].DisplayOrder {
			t.Fatalf("expected display order sorting, got %v", questionIDs(all))
		}
	}
}

func TestRatingQuestionCounts(t *testing.T) {
	uc := seededCatalog(t)
	ctx := context.Background()

	total, err := uc.RatingQuestionCount(ctx, "event-1")
	if err != nil {
		t.Fatalf("rating count: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected 3 rating questions, got %d", total)
	}

	fan, err := uc.RatingQuestionCountForBucket(ctx, "event-1", entities.AudienceBucketFan)
	if err != nil {
		t.Fatalf("fan rating count: %v", err)
	}
	if fan != 2 {
		t.Fatalf("expected 2 fan rating questions, got %d", fan)
	}

	judge, err := uc.RatingQuestionCountForBucket(ctx, "event-1", entities.AudienceBucketJudge)
	if err != nil {
		t.Fatalf("judge rating count: %v", err)
	}
	if judge != 2 {
		t.Fatalf("expected 2 judge rating questions, got %d", judge)
	}
}

func TestEventQuestionsEmptyEvent(t *testing.T) {
	uc := seededCatalog(t)
	questions, err := uc.EventQuestions(context.Background(), "event-missing", entities.AudienceBucketFan, false)
	if err != nil {
		t.Fatalf("empty catalog: %v", err)
	}
	if len(questions) != 0 {
		t.Fatalf("expected empty catalog, got %v", questionIDs(questions))
	}
}
