package queries

import (
	"context"
	"strings"
	"time"

	"ovation/contexts/live-show/performance-lifecycle/domain/entities"
	"ovation/contexts/live-show/performance-lifecycle/ports"
)

type StageStatusUseCase struct {
	Events       ports.EventRepository
	Artists      ports.ArtistRepository
	Performances ports.PerformanceRepository
	Schedule     ports.ScheduleRepository
	Clock        ports.Clock
}

// LiveStage is the read-model for "who is on stage right now".
type LiveStage struct {
	Performance entities.Performance
	Artist      entities.Artist
	Live        bool
}

// VotingStatus is the window read-model; State is always derived fresh.
type VotingStatus struct {
	PerformanceID string
	State         entities.VotingState
	SecondsLeft   int
	Paused        bool
}

func (uc StageStatusUseCase) LivePerformance(ctx context.Context, eventID string) (LiveStage, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		event, err := uc.Events.GetActiveEvent(ctx)
		if err != nil {
			return LiveStage{}, err
		}
		eventID = event.EventID
	}

	performance, found, err := uc.Performances.GetLivePerformance(ctx, eventID)
	if err != nil {
		return LiveStage{}, err
	}
	if !found {
		return LiveStage{}, nil
	}
	artist, err := uc.Artists.GetArtist(ctx, performance.ArtistID)
	if err != nil {
		return LiveStage{}, err
	}
	return LiveStage{Performance: performance, Artist: artist, Live: true}, nil
}

func (uc StageStatusUseCase) VotingStatus(ctx context.Context, performanceID string) (VotingStatus, error) {
	performance, err := uc.Performances.GetPerformance(ctx, strings.TrimSpace(performanceID))
	if err != nil {
		return VotingStatus{}, err
	}
	now := uc.now()
	return VotingStatus{
		PerformanceID: performance.PerformanceID,
		State:         performance.VotingState(now),
		SecondsLeft:   performance.VotingSecondsLeft(now),
		Paused:        performance.VotingPaused,
	}, nil
}

func (uc StageStatusUseCase) Lineup(ctx context.Context, eventID string) ([]entities.ScheduleSlot, error) {
	return uc.Schedule.ListSchedule(ctx, strings.TrimSpace(eventID))
}

func (uc StageStatusUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
