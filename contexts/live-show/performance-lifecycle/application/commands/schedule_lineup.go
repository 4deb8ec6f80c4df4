package commands

import (
	"context"
	"sort"
	"strings"
	"time"

	application "ovation/contexts/live-show/performance-lifecycle/application"
	"ovation/contexts/live-show/performance-lifecycle/domain/entities"
	domainerrors "ovation/contexts/live-show/performance-lifecycle/domain/errors"
)

type ScheduleLineupCommand struct {
	EventID string
	// StartAt anchors the first slot; zero means now.
	StartAt time.Time
}

// ScheduleLineup rebuilds the planned running order for an event from the
// artists' lineup order and the event's per-performance and break durations.
// Existing slots for the event are replaced wholesale.
func (uc LifecycleUseCase) ScheduleLineup(ctx context.Context, cmd ScheduleLineupCommand) ([]entities.ScheduleSlot, error) {
	logger := application.ResolveLogger(uc.Logger)
	event, err := uc.Events.GetEvent(ctx, strings.TrimSpace(cmd.EventID))
	if err != nil {
		return nil, err
	}
	if event.PerformanceMinutes <= 0 {
		return nil, domainerrors.ErrInvalidState
	}

	artists, err := uc.Artists.ListLineup(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(artists, func(i, j int) bool {
		return artists[i].LineupOrder < artists[j].LineupOrder
	})

	startAt := cmd.StartAt
	if startAt.IsZero() {
		startAt = uc.now()
	}
	startAt = startAt.UTC()

	slots := make([]entities.ScheduleSlot, 0, len(artists))
	cursor := startAt
	for _, artist := range artists {
		slotID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return nil, err
		}
		slots = append(slots, entities.ScheduleSlot{
			ScheduleID:     slotID,
			EventID:        event.EventID,
			ArtistID:       artist.ArtistID,
			ScheduledStart: cursor,
			DurationMin:    event.PerformanceMinutes,
		})
		cursor = cursor.Add(time.Duration(event.PerformanceMinutes+event.BreakMinutes) * time.Minute)
	}

	if err := uc.Schedule.ReplaceSchedule(ctx, event.EventID, slots); err != nil {
		return nil, err
	}

	logger.Info("lineup scheduled",
		"event", "lifecycle_lineup_scheduled",
		"module", "live-show/performance-lifecycle",
		"layer", "application",
		"event_id", event.EventID,
		"slot_count", len(slots),
	)
	return slots, nil
}
