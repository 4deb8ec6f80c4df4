package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "ovation/contexts/live-show/question-registry/application"
	"ovation/contexts/live-show/question-registry/domain/entities"
	domainerrors "ovation/contexts/live-show/question-registry/domain/errors"
	"ovation/contexts/live-show/question-registry/ports"
	"ovation/internal/shared/events"
)

// QuestionItem is one row of the admin's question editor. A blank QuestionID
// means "create"; a known one means "update in place".
type QuestionItem struct {
	QuestionID string
	Text       string
	Type       entities.QuestionType
	Target     entities.QuestionTarget
	LowLabel   string
	HighLabel  string
}

type SyncQuestionsCommand struct {
	EventID string
	Items   []QuestionItem
}

type DeleteQuestionCommand struct {
	QuestionID string
}

// RegistryUseCase owns the per-event question catalog.
type RegistryUseCase struct {
	Questions ports.QuestionRepository
	Votes     ports.QuestionVotePurger
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// SyncQuestions replaces the editable fields of the event's catalog in the
// order the admin arranged them. Display order is the slice index.
func (uc RegistryUseCase) SyncQuestions(
	ctx context.Context,
	cmd SyncQuestionsCommand,
) ([]entities.Question, error) {
	logger := application.ResolveLogger(uc.Logger)
	eventID := strings.TrimSpace(cmd.EventID)
	if eventID == "" {
		return nil, domainerrors.ErrInvalidQuestionInput
	}

	now := uc.now()
	saved := make([]entities.Question, 0, len(cmd.Items))
	for index, item := range cmd.Items {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			return nil, domainerrors.ErrInvalidQuestionInput
		}
		questionType := item.Type
		if questionType != entities.QuestionTypeRating && questionType != entities.QuestionTypeText {
			return nil, domainerrors.ErrInvalidQuestionInput
		}
		target := item.Target
		if target == "" {
			target = entities.QuestionTargetBoth
		}
		if target != entities.QuestionTargetFan &&
			target != entities.QuestionTargetJudge &&
			target != entities.QuestionTargetBoth {
			return nil, domainerrors.ErrInvalidQuestionInput
		}

		question := entities.Question{
			QuestionID:   strings.TrimSpace(item.QuestionID),
			EventID:      eventID,
			Text:         text,
			Type:         questionType,
			Target:       target,
			LowLabel:     strings.TrimSpace(item.LowLabel),
			HighLabel:    strings.TrimSpace(item.HighLabel),
			DisplayOrder: index,
			UpdatedAt:    now,
		}
		if question.QuestionID == "" {
			questionID, err := uc.IDGen.NewID(ctx)
			if err != nil {
				return nil, err
			}
			question.QuestionID = questionID
			question.CreatedAt = now
		} else {
			existing, err := uc.Questions.GetQuestion(ctx, question.QuestionID)
			if err != nil {
				return nil, err
			}
			question.CreatedAt = existing.CreatedAt
		}
		if err := uc.Questions.UpsertQuestion(ctx, question); err != nil {
			return nil, err
		}
		saved = append(saved, question)
	}

	if err := uc.publishQuestionsUpdated(ctx, eventID, len(saved), now); err != nil {
		return nil, err
	}

	logger.Info("event questions synced",
		"event", "registry_questions_synced",
		"module", "live-show/question-registry",
		"layer", "application",
		"event_id", eventID,
		"question_count", len(saved),
	)
	return saved, nil
}

// DeleteQuestion removes the question and cascades its votes so rankings do
// not keep counting answers for a prompt that no longer exists.
func (uc RegistryUseCase) DeleteQuestion(ctx context.Context, cmd DeleteQuestionCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	questionID := strings.TrimSpace(cmd.QuestionID)
	if questionID == "" {
		return domainerrors.ErrInvalidQuestionInput
	}

	question, err := uc.Questions.GetQuestion(ctx, questionID)
	if err != nil {
		return err
	}

	var purged int64
	if uc.Votes != nil {
		purged, err = uc.Votes.PurgeVotesByQuestion(ctx, questionID)
		if err != nil {
			return err
		}
	}
	if err := uc.Questions.DeleteQuestion(ctx, questionID); err != nil {
		return err
	}

	now := uc.now()
	if err := uc.publishQuestionsUpdated(ctx, question.EventID, 1, now); err != nil {
		return err
	}

	logger.Info("question deleted",
		"event", "registry_question_deleted",
		"module", "live-show/question-registry",
		"layer", "application",
		"question_id", questionID,
		"event_id", question.EventID,
		"purged_votes", purged,
	)
	return nil
}

func (uc RegistryUseCase) publishQuestionsUpdated(
	ctx context.Context,
	eventID string,
	changed int,
	occurredAt time.Time,
) error {
	if uc.Outbox == nil {
		return nil
	}
	envelopeID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := events.New(
		envelopeID,
		"questions.updated",
		"question-registry",
		eventID,
		occurredAt,
		map[string]any{
			"event_id":      eventID,
			"changed_count": changed,
		},
	)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func (uc RegistryUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
