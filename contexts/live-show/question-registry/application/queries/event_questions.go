package queries

import (
	"context"
	"sort"
	"strings"

	"ovation/contexts/live-show/question-registry/domain/entities"
	"ovation/contexts/live-show/question-registry/ports"
)

type CatalogUseCase struct {
	Questions ports.QuestionRepository
}

// EventQuestions returns the event's catalog ordered for display. A non-empty
// bucket filters to what that audience is asked; admins pass seeAll.
func (uc CatalogUseCase) EventQuestions(
	ctx context.Context,
	eventID string,
	bucket entities.AudienceBucket,
	seeAll bool,
) ([]entities.Question, error) {
	questions, err := uc.Questions.ListEventQuestions(ctx, strings.TrimSpace(eventID))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].DisplayOrder < questions[j].DisplayOrder
	})
	if seeAll {
		return questions, nil
	}
	filtered := make([]entities.Question, 0, len(questions))
	for _, question := range questions {
		if question.VisibleTo(bucket) {
			filtered = append(filtered, question)
		}
	}
	return filtered, nil
}

// RatingQuestionCount counts the event's rating questions across all targets.
// Catalog responses report it so clients can show the rating denominator
// without walking the question list themselves.
func (uc CatalogUseCase) RatingQuestionCount(ctx context.Context, eventID string) (int, error) {
	questions, err := uc.Questions.ListEventQuestions(ctx, strings.TrimSpace(eventID))
	if err != nil {
		return 0, err
	}
	count := 0
	for _, question := range questions {
		if question.IsRating() {
			count++
		}
	}
	return count, nil
}

// RatingQuestionCountForBucket counts the rating questions a given audience
// actually answers. Bucketed catalog responses report this one.
func (uc CatalogUseCase) RatingQuestionCountForBucket(
	ctx context.Context,
	eventID string,
	bucket entities.AudienceBucket,
) (int, error) {
	questions, err := uc.Questions.ListEventQuestions(ctx, strings.TrimSpace(eventID))
	if err != nil {
		return 0, err
	}
	count := 0
	for _, question := range questions {
		if question.IsRating() && question.VisibleTo(bucket) {
			count++
		}
	}
	return count, nil
}
