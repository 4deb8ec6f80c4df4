package commands

import (
	"context"
	"strings"

	application "ovation/contexts/live-show/performance-lifecycle/application"
	"ovation/contexts/live-show/performance-lifecycle/domain/entities"
	domainerrors "ovation/contexts/live-show/performance-lifecycle/domain/errors"
)

type StartPerformanceCommand struct {
	ArtistID string
}

// StartPerformance puts an artist on stage. It closes whatever is currently
// live in the active event, demotes the previous live artist, and creates a
// fresh performance with no voting window. The whole sequence runs under the
// event lock so two concurrent starts can never leave two performances live.
func (uc LifecycleUseCase) StartPerformance(
	ctx context.Context,
	cmd StartPerformanceCommand,
) (entities.Performance, error) {
	logger := application.ResolveLogger(uc.Logger)
	artistID := strings.TrimSpace(cmd.ArtistID)
	if artistID == "" {
		return entities.Performance{}, domainerrors.ErrInvalidInput
	}

	event, err := uc.Events.GetActiveEvent(ctx)
	if err != nil {
		return entities.Performance{}, err
	}

	lock := uc.locks().ForEvent(event.EventID)
	lock.Lock()
	defer lock.Unlock()

	artist, err := uc.Artists.GetArtist(ctx, artistID)
	if err != nil {
		return entities.Performance{}, err
	}

	now := uc.now()
	closed, err := uc.Performances.CloseLivePerformances(ctx, event.EventID, now)
	if err != nil {
		return entities.Performance{}, err
	}
	if _, err := uc.Artists.DemoteLiveArtists(ctx, entities.ArtistStatusClosed, now); err != nil {
		return entities.Performance{}, err
	}

	performanceID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Performance{}, err
	}
	performance := entities.Performance{
		PerformanceID:   performanceID,
		ArtistID:        artist.ArtistID,
		EventID:         event.EventID,
		Status:          entities.PerformanceStatusLive,
		StartTime:       now,
		VotingStartedAt: nil,
		VotingEndsAt:    nil,
		VotingPaused:    false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.Performances.CreatePerformance(ctx, performance); err != nil {
		return entities.Performance{}, err
	}
	if err := uc.Artists.SetArtistStatus(ctx, artist.ArtistID, entities.ArtistStatusLive, now); err != nil {
		return entities.Performance{}, err
	}

	if err := uc.publishPerformanceUpdated(ctx, performance, "performance_started", now); err != nil {
		return entities.Performance{}, err
	}

	logger.Info("performance started",
		"event", "lifecycle_performance_started",
		"module", "live-show/performance-lifecycle",
		"layer", "application",
		"performance_id", performance.PerformanceID,
		"artist_id", artist.ArtistID,
		"event_id", event.EventID,
		"closed_previous", len(closed),
	)
	return performance, nil
}
