package commands

import (
	"context"
	"time"

	"ovation/contexts/live-show/performance-lifecycle/domain/entities"
	"ovation/contexts/live-show/performance-lifecycle/ports"
	"ovation/internal/shared/events"
)

// publishPerformanceUpdated appends a performance.updated envelope carrying
// everything a push-based display needs to re-render: lifecycle status, the
// voting window, the pause flag, and the current aggregate score.
func (uc LifecycleUseCase) publishPerformanceUpdated(
	ctx context.Context,
	performance entities.Performance,
	reason string,
	occurredAt time.Time,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}

	tally := ports.Tally{}
	if uc.Scores != nil {
		snapshot, err := uc.Scores.PerformanceTally(ctx, performance.PerformanceID)
		if err == nil {
			tally = snapshot
		}
	}

	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data := map[string]any{
		"performance_id":      performance.PerformanceID,
		"artist_id":           performance.ArtistID,
		"event_id":            performance.EventID,
		"status":              string(performance.Status),
		"voting_state":        string(performance.VotingState(occurredAt)),
		"voting_started_at":   formatOptionalTime(performance.VotingStartedAt),
		"voting_ends_at":      formatOptionalTime(performance.VotingEndsAt),
		"is_voting_paused":    performance.VotingPaused,
		"vote_count":          tally.DistinctVoters,
		"bias_adjusted_score": tally.BiasAdjustedScore,
		"reason":              reason,
	}

	envelope, err := events.New(
		eventID,
		"performance.updated",
		"performance-lifecycle",
		performance.PerformanceID,
		occurredAt,
		data,
	)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func formatOptionalTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339)
}
