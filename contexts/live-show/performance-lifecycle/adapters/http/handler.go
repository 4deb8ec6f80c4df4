package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"ovation/contexts/live-show/performance-lifecycle/application/commands"
	"ovation/contexts/live-show/performance-lifecycle/application/queries"
	"ovation/contexts/live-show/performance-lifecycle/domain/entities"
	httptransport "ovation/contexts/live-show/performance-lifecycle/transport/http"
)

type Handler struct {
	Lifecycle commands.LifecycleUseCase
	Stage     queries.StageStatusUseCase
	Logger    *slog.Logger
}

func (h Handler) StartPerformanceHandler(
	ctx context.Context,
	req httptransport.StartPerformanceRequest,
) (httptransport.PerformanceResponse, error) {
	performance, err := h.Lifecycle.StartPerformance(ctx, commands.StartPerformanceCommand{
		ArtistID: req.ArtistID,
	})
	if err != nil {
		return httptransport.PerformanceResponse{}, err
	}
	return h.mapPerformance(performance), nil
}

func (h Handler) OpenVotingHandler(
	ctx context.Context,
	performanceID string,
	req httptransport.OpenVotingRequest,
) (httptransport.PerformanceResponse, error) {
	performance, err := h.Lifecycle.OpenVoting(ctx, commands.OpenVotingCommand{
		PerformanceID: performanceID,
		Duration:      time.Duration(req.DurationSeconds) * time.Second,
	})
	if err != nil {
		return httptransport.PerformanceResponse{}, err
	}
	return h.mapPerformance(performance), nil
}

func (h Handler) TogglePauseHandler(ctx context.Context, performanceID string) (httptransport.PerformanceResponse, error) {
	performance, err := h.Lifecycle.TogglePause(ctx, commands.TogglePauseCommand{
		PerformanceID: performanceID,
	})
	if err != nil {
		return httptransport.PerformanceResponse{}, err
	}
	return h.mapPerformance(performance), nil
}

func (h Handler) AdjustTimeHandler(
	ctx context.Context,
	performanceID string,
	req httptransport.AdjustTimeRequest,
) (httptransport.PerformanceResponse, error) {
	performance, err := h.Lifecycle.AdjustTime(ctx, commands.AdjustTimeCommand{
		PerformanceID: performanceID,
		DeltaSeconds:  req.DeltaSeconds,
	})
	if err != nil {
		return httptransport.PerformanceResponse{}, err
	}
	return h.mapPerformance(performance), nil
}

func (h Handler) EndPerformanceHandler(ctx context.Context, performanceID string) (httptransport.PerformanceResponse, error) {
	performance, err := h.Lifecycle.EndPerformance(ctx, commands.EndPerformanceCommand{
		PerformanceID: performanceID,
	})
	if err != nil {
		return httptransport.PerformanceResponse{}, err
	}
	return h.mapPerformance(performance), nil
}

func (h Handler) ResetPerformanceHandler(ctx context.Context, performanceID string) (httptransport.ResetPerformanceResponse, error) {
	if err := h.Lifecycle.ResetPerformance(ctx, commands.ResetPerformanceCommand{
		PerformanceID: performanceID,
	}); err != nil {
		return httptransport.ResetPerformanceResponse{}, err
	}
	return httptransport.ResetPerformanceResponse{
		PerformanceID: performanceID,
		Reset:         true,
	}, nil
}

func (h Handler) ScheduleLineupHandler(ctx context.Context, eventID string) (httptransport.ScheduleResponse, error) {
	slots, err := h.Lifecycle.ScheduleLineup(ctx, commands.ScheduleLineupCommand{
		EventID: eventID,
	})
	if err != nil {
		return httptransport.ScheduleResponse{}, err
	}
	return httptransport.ScheduleResponse{Items: mapSchedule(slots)}, nil
}

func (h Handler) LivePerformanceHandler(ctx context.Context, eventID string) (httptransport.LiveStageResponse, error) {
	stage, err := h.Stage.LivePerformance(ctx, eventID)
	if err != nil {
		return httptransport.LiveStageResponse{}, err
	}
	if !stage.Live {
		return httptransport.LiveStageResponse{Live: false}, nil
	}
	performance := h.mapPerformance(stage.Performance)
	artist := httptransport.ArtistResponse{
		ArtistID:    stage.Artist.ArtistID,
		Name:        stage.Artist.Name,
		Bio:         stage.Artist.Bio,
		Photo:       stage.Artist.Photo,
		Status:      string(stage.Artist.Status),
		LineupOrder: stage.Artist.LineupOrder,
	}
	return httptransport.LiveStageResponse{
		Live:        true,
		Performance: &performance,
		Artist:      &artist,
	}, nil
}

func (h Handler) VotingStatusHandler(ctx context.Context, performanceID string) (httptransport.VotingStatusResponse, error) {
	status, err := h.Stage.VotingStatus(ctx, performanceID)
	if err != nil {
		return httptransport.VotingStatusResponse{}, err
	}
	return httptransport.VotingStatusResponse{
		PerformanceID: status.PerformanceID,
		State:         string(status.State),
		SecondsLeft:   status.SecondsLeft,
		Paused:        status.Paused,
	}, nil
}

func (h Handler) LineupHandler(ctx context.Context, eventID string) (httptransport.ScheduleResponse, error) {
	slots, err := h.Stage.Lineup(ctx, eventID)
	if err != nil {
		return httptransport.ScheduleResponse{}, err
	}
	return httptransport.ScheduleResponse{Items: mapSchedule(slots)}, nil
}

func (h Handler) mapPerformance(performance entities.Performance) httptransport.PerformanceResponse {
	now := time.Now().UTC()
	if h.Lifecycle.Clock != nil {
		now = h.Lifecycle.Clock.Now().UTC()
	}
	return httptransport.PerformanceResponse{
		PerformanceID:   performance.PerformanceID,
		ArtistID:        performance.ArtistID,
		EventID:         performance.EventID,
		Status:          string(performance.Status),
		StartTime:       performance.StartTime.UTC().Format(time.RFC3339),
		EndTime:         formatOptional(performance.EndTime),
		VotingStartedAt: formatOptional(performance.VotingStartedAt),
		VotingEndsAt:    formatOptional(performance.VotingEndsAt),
		VotingPaused:    performance.VotingPaused,
		VotingState:     string(performance.VotingState(now)),
	}
}

func mapSchedule(slots []entities.ScheduleSlot) []httptransport.ScheduleSlotResponse {
	items := make([]httptransport.ScheduleSlotResponse, 0, len(slots))
	for _, slot := range slots {
		items = append(items, httptransport.ScheduleSlotResponse{
			ScheduleID:     slot.ScheduleID,
			EventID:        slot.EventID,
			ArtistID:       slot.ArtistID,
			ScheduledStart: slot.ScheduledStart.UTC().Format(time.RFC3339),
			DurationMin:    slot.DurationMin,
		})
	}
	return items
}

func formatOptional(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}
