package ports

import (
	"context"
	"time"

	lifecycleentities "ovation/contexts/live-show/performance-lifecycle/domain/entities"
	registryentities "ovation/contexts/live-show/question-registry/domain/entities"
	"ovation/contexts/live-show/vote-engine/domain/entities"
	"ovation/internal/shared/events"
	"ovation/internal/shared/outbox"
)

// VoteLedger persists vote rows. InsertVotes is all-or-nothing and must
// surface a duplicate (user, performance, question) as ErrAlreadyVoted.
type VoteLedger interface {
	InsertVotes(ctx context.Context, votes []entities.Vote) error
	HasUserVoted(ctx context.Context, userID string, performanceID string) (bool, error)
	ListPerformanceVotes(ctx context.Context, performanceID string) ([]entities.Vote, error)
	ListVotesByPerformances(ctx context.Context, performanceIDs []string) ([]entities.Vote, error)
	ListUserPerformanceVotes(ctx context.Context, userID string, performanceID string) ([]entities.Vote, error)
	PurgeVotesByPerformance(ctx context.Context, performanceID string) (int64, error)
	PurgeVotesByQuestion(ctx context.Context, questionID string) (int64, error)
}

// PerformanceDirectory is the lifecycle service seen from the vote engine.
// Performances come back as lifecycle entities so voting openness is derived
// by the same predicate the stage controls use.
type PerformanceDirectory interface {
	GetPerformance(ctx context.Context, performanceID string) (lifecycleentities.Performance, error)
	ListEventPerformances(ctx context.Context, eventID string) ([]lifecycleentities.Performance, error)
}

// QuestionDirectory is the question registry seen from the vote engine.
type QuestionDirectory interface {
	ListEventQuestions(ctx context.Context, eventID string) ([]registryentities.Question, error)
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope events.Envelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
