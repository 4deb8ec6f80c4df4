package ports

import (
	"context"
	"time"

	"ovation/contexts/live-show/performance-lifecycle/domain/entities"
	"ovation/internal/shared/events"
	"ovation/internal/shared/outbox"
)

type EventRepository interface {
	GetActiveEvent(ctx context.Context) (entities.Event, error)
	GetEvent(ctx context.Context, eventID string) (entities.Event, error)
}

type ArtistRepository interface {
	GetArtist(ctx context.Context, artistID string) (entities.Artist, error)
	SetArtistStatus(ctx context.Context, artistID string, status entities.ArtistStatus, updatedAt time.Time) error
	// DemoteLiveArtists moves every live artist to the given status and
	// returns the affected ids.
	DemoteLiveArtists(ctx context.Context, to entities.ArtistStatus, updatedAt time.Time) ([]string, error)
	ListLineup(ctx context.Context) ([]entities.Artist, error)
}

type PerformanceRepository interface {
	CreatePerformance(ctx context.Context, performance entities.Performance) error
	GetPerformance(ctx context.Context, performanceID string) (entities.Performance, error)
	GetLivePerformance(ctx context.Context, eventID string) (entities.Performance, bool, error)
	// CloseLivePerformances closes every live performance of the event and
	// returns the rows it closed.
	CloseLivePerformances(ctx context.Context, eventID string, endedAt time.Time) ([]entities.Performance, error)
	UpdatePerformance(ctx context.Context, performance entities.Performance) error
	DeletePerformance(ctx context.Context, performanceID string) error
	ListEventPerformances(ctx context.Context, eventID string) ([]entities.Performance, error)
}

type ScheduleRepository interface {
	ReplaceSchedule(ctx context.Context, eventID string, slots []entities.ScheduleSlot) error
	ListSchedule(ctx context.Context, eventID string) ([]entities.ScheduleSlot, error)
}

// VotePurger removes the vote ledger rows of a performance being reset. The
// ledger lives in the vote-engine service; bootstrap wires its store here.
type VotePurger interface {
	PurgeVotesByPerformance(ctx context.Context, performanceID string) (int64, error)
}

// Tally is the aggregate snapshot attached to performance.updated events so
// push-based displays can re-render without a fresh poll.
type Tally struct {
	DistinctVoters    int
	BiasAdjustedScore float64
}

// ScoreReader exposes the vote-engine's current aggregate for a performance.
type ScoreReader interface {
	PerformanceTally(ctx context.Context, performanceID string) (Tally, error)
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
