package httpadapter

import (
	"context"
	"log/slog"

	"ovation/contexts/live-show/question-registry/application/commands"
	"ovation/contexts/live-show/question-registry/application/queries"
	"ovation/contexts/live-show/question-registry/domain/entities"
	httptransport "ovation/contexts/live-show/question-registry/transport/http"
)

type Handler struct {
	Registry commands.RegistryUseCase
	Catalog  queries.CatalogUseCase
	Logger   *slog.Logger
}

func (h Handler) SyncQuestionsHandler(
	ctx context.Context,
	eventID string,
	req httptransport.SyncQuestionsRequest,
) (httptransport.QuestionListResponse, error) {
	items := make([]commands.QuestionItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, commands.QuestionItem{
			QuestionID: item.QuestionID,
			Text:       item.Text,
			Type:       entities.QuestionType(item.Type),
			Target:     entities.QuestionTarget(item.Target),
			LowLabel:   item.LowLabel,
			HighLabel:  item.HighLabel,
		})
	}
	saved, err := h.Registry.SyncQuestions(ctx, commands.SyncQuestionsCommand{
		EventID: eventID,
		Items:   items,
	})
	if err != nil {
		return httptransport.QuestionListResponse{}, err
	}
	ratingCount, err := h.Catalog.RatingQuestionCount(ctx, eventID)
	if err != nil {
		return httptransport.QuestionListResponse{}, err
	}
	return httptransport.QuestionListResponse{
		Items:               mapQuestions(saved),
		RatingQuestionCount: ratingCount,
	}, nil
}

func (h Handler) DeleteQuestionHandler(ctx context.Context, questionID string) (httptransport.DeleteQuestionResponse, error) {
	if err := h.Registry.DeleteQuestion(ctx, commands.DeleteQuestionCommand{
		QuestionID: questionID,
	}); err != nil {
		return httptransport.DeleteQuestionResponse{}, err
	}
	return httptransport.DeleteQuestionResponse{
		QuestionID: questionID,
		Deleted:    true,
	}, nil
}

// EventQuestionsHandler resolves the caller's role into an audience bucket.
// Unknown roles see the fan catalog; admins see everything.
func (h Handler) EventQuestionsHandler(
	ctx context.Context,
	eventID string,
	role string,
) (httptransport.QuestionListResponse, error) {
	bucket := entities.AudienceBucketFan
	seeAll := false
	switch role {
	case "judge":
		bucket = entities.AudienceBucketJudge
	case "admin":
		seeAll = true
	}
	questions, err := h.Catalog.EventQuestions(ctx, eventID, bucket, seeAll)
	if err != nil {
		return httptransport.QuestionListResponse{}, err
	}
	var ratingCount int
	if seeAll {
		ratingCount, err = h.Catalog.RatingQuestionCount(ctx, eventID)
	} else {
		ratingCount, err = h.Catalog.RatingQuestionCountForBucket(ctx, eventID, bucket)
	}
	if err != nil {
		return httptransport.QuestionListResponse{}, err
	}
	return httptransport.QuestionListResponse{
		Items:               mapQuestions(questions),
		RatingQuestionCount: ratingCount,
	}, nil
}

func mapQuestions(questions []entities.Question) []httptransport.QuestionResponse {
	items := make([]httptransport.QuestionResponse, 0, len(questions))
	for _, question := range questions {
		items = append(items, httptransport.QuestionResponse{
			QuestionID:   question.QuestionID,
			EventID:      question.EventID,
			Text:         question.Text,
			Type:         string(question.Type),
			Target:       string(question.Target),
			LowLabel:     question.LowLabel,
			HighLabel:    question.HighLabel,
			DisplayOrder: question.DisplayOrder,
		})
	}
	return items
}
