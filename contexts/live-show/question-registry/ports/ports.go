package ports

import (
	"context"
	"time"

	"ovation/contexts/live-show/question-registry/domain/entities"
	"ovation/internal/shared/events"
	"ovation/internal/shared/outbox"
)

// QuestionRepository persists the per-event question catalog.
type QuestionRepository interface {
	UpsertQuestion(ctx context.Context, question entities.Question) error
	GetQuestion(ctx context.Context, questionID string) (entities.Question, error)
	DeleteQuestion(ctx context.Context, questionID string) error
	ListEventQuestions(ctx context.Context, eventID string) ([]entities.Question, error)
}

// QuestionVotePurger removes the votes attached to a deleted question. The
// vote ledger lives in another service; this port is how the cascade crosses
// the boundary.
type QuestionVotePurger interface {
	PurgeVotesByQuestion(ctx context.Context, questionID string) (int64, error)
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope events.Envelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, envelope events.Envelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
