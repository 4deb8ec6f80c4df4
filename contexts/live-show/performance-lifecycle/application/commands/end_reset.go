package commands

import (
	"context"
	"strings"

	application "ovation/contexts/live-show/performance-lifecycle/application"
	"ovation/contexts/live-show/performance-lifecycle/domain/entities"
)

type EndPerformanceCommand struct {
	PerformanceID string
}

type ResetPerformanceCommand struct {
	PerformanceID string
}

// EndPerformance closes the performance and demotes its artist. Closed is
// terminal; the row and its votes stay for the rankings.
func (uc LifecycleUseCase) EndPerformance(ctx context.Context, cmd EndPerformanceCommand) (entities.Performance, error) {
	logger := application.ResolveLogger(uc.Logger)
	performance, err := uc.Performances.GetPerformance(ctx, strings.TrimSpace(cmd.PerformanceID))
	if err != nil {
		return entities.Performance{}, err
	}

	now := uc.now()
	performance.Status = entities.PerformanceStatusClosed
	performance.EndTime = &now
	performance.UpdatedAt = now
	if err := uc.Performances.UpdatePerformance(ctx, performance); err != nil {
		return entities.Performance{}, err
	}
	if err := uc.Artists.SetArtistStatus(ctx, performance.ArtistID, entities.ArtistStatusClosed, now); err != nil {
		return entities.Performance{}, err
	}
	if err := uc.publishPerformanceUpdated(ctx, performance, "performance_ended", now); err != nil {
		return entities.Performance{}, err
	}

	logger.Info("performance ended",
		"event", "lifecycle_performance_ended",
		"module", "live-show/performance-lifecycle",
		"layer", "application",
		"performance_id", performance.PerformanceID,
		"artist_id", performance.ArtistID,
	)
	return performance, nil
}

// ResetPerformance un-creates a performance: the artist returns to upcoming,
// every vote cast against it is purged, and the row itself is deleted. This
// is a deletion, not a state transition; the artist can go live again.
func (uc LifecycleUseCase) ResetPerformance(ctx context.Context, cmd ResetPerformanceCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	performance, err := uc.Performances.GetPerformance(ctx, strings.TrimSpace(cmd.PerformanceID))
	if err != nil {
		return err
	}

	now := uc.now()
	if err := uc.Artists.SetArtistStatus(ctx, performance.ArtistID, entities.ArtistStatusUpcoming, now); err != nil {
		return err
	}

	var purged int64
	if uc.Votes != nil {
		purged, err = uc.Votes.PurgeVotesByPerformance(ctx, performance.PerformanceID)
		if err != nil {
			return err
		}
	}
	if err := uc.Performances.DeletePerformance(ctx, performance.PerformanceID); err != nil {
		return err
	}

	// The row is gone; announce the reset with the last known identity so
	// displays drop it.
	performance.Status = entities.PerformanceStatusClosed
	if err := uc.publishPerformanceUpdated(ctx, performance, "performance_reset", now); err != nil {
		return err
	}

	logger.Info("performance reset",
		"event", "lifecycle_performance_reset",
		"module", "live-show/performance-lifecycle",
		"layer", "application",
		"performance_id", performance.PerformanceID,
		"artist_id", performance.ArtistID,
		"votes_purged", purged,
	)
	return nil
}
