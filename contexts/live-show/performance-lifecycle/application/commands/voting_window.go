package commands

import (
	"context"
	"strings"
	"time"

	application "ovation/contexts/live-show/performance-lifecycle/application"
	"ovation/contexts/live-show/performance-lifecycle/domain/entities"
	domainerrors "ovation/contexts/live-show/performance-lifecycle/domain/errors"
)

type OpenVotingCommand struct {
	PerformanceID string
	// Duration of the window; zero means the configured default.
	Duration time.Duration
}

type TogglePauseCommand struct {
	PerformanceID string
}

type AdjustTimeCommand struct {
	PerformanceID string
	DeltaSeconds  int
}

// lockedPerformance loads a performance under its event lock. The first read
// only learns the event id; the row is read again once the lock is held, so a
// concurrent start cannot close the performance between read and write and
// have the stale copy written back live.
func (uc LifecycleUseCase) lockedPerformance(
	ctx context.Context,
	performanceID string,
) (entities.Performance, func(), error) {
	performance, err := uc.Performances.GetPerformance(ctx, performanceID)
	if err != nil {
		return entities.Performance{}, nil, err
	}

	lock := uc.locks().ForEvent(performance.EventID)
	lock.Lock()
	performance, err = uc.Performances.GetPerformance(ctx, performanceID)
	if err != nil {
		lock.Unlock()
		return entities.Performance{}, nil, err
	}
	return performance, lock.Unlock, nil
}

// OpenVoting stamps a fresh voting window on the performance. Calling it
// again resets the window; the control surface confirms re-opens, the core
// does not guard them.
func (uc LifecycleUseCase) OpenVoting(ctx context.Context, cmd OpenVotingCommand) (entities.Performance, error) {
	logger := application.ResolveLogger(uc.Logger)
	performance, unlock, err := uc.lockedPerformance(ctx, strings.TrimSpace(cmd.PerformanceID))
	if err != nil {
		return entities.Performance{}, err
	}
	defer unlock()

	duration := cmd.Duration
	if duration <= 0 {
		duration = uc.defaultWindow()
	}

	now := uc.now()
	endsAt := now.Add(duration)
	performance.VotingStartedAt = &now
	performance.VotingEndsAt = &endsAt
	performance.UpdatedAt = now
	if err := uc.Performances.UpdatePerformance(ctx, performance); err != nil {
		return entities.Performance{}, err
	}
	if err := uc.publishPerformanceUpdated(ctx, performance, "voting_opened", now); err != nil {
		return entities.Performance{}, err
	}

	logger.Info("voting window opened",
		"event", "lifecycle_voting_opened",
		"module", "live-show/performance-lifecycle",
		"layer", "application",
		"performance_id", performance.PerformanceID,
		"window_seconds", int(duration/time.Second),
	)
	return performance, nil
}

// TogglePause flips the pause flag regardless of window state. Pausing before
// the window opens is legal and simply has no visible effect until it does.
func (uc LifecycleUseCase) TogglePause(ctx context.Context, cmd TogglePauseCommand) (entities.Performance, error) {
	logger := application.ResolveLogger(uc.Logger)
	performance, unlock, err := uc.lockedPerformance(ctx, strings.TrimSpace(cmd.PerformanceID))
	if err != nil {
		return entities.Performance{}, err
	}
	defer unlock()

	now := uc.now()
	performance.VotingPaused = !performance.VotingPaused
	performance.UpdatedAt = now
	if err := uc.Performances.UpdatePerformance(ctx, performance); err != nil {
		return entities.Performance{}, err
	}

	reason := "voting_resumed"
	if performance.VotingPaused {
		reason = "voting_paused"
	}
	if err := uc.publishPerformanceUpdated(ctx, performance, reason, now); err != nil {
		return entities.Performance{}, err
	}

	logger.Info("voting pause toggled",
		"event", "lifecycle_voting_pause_toggled",
		"module", "live-show/performance-lifecycle",
		"layer", "application",
		"performance_id", performance.PerformanceID,
		"paused", performance.VotingPaused,
	)
	return performance, nil
}

// AdjustTime shifts the window deadline by the signed delta. A window that was
// never opened has no deadline to shift.
func (uc LifecycleUseCase) AdjustTime(ctx context.Context, cmd AdjustTimeCommand) (entities.Performance, error) {
	logger := application.ResolveLogger(uc.Logger)
	performance, unlock, err := uc.lockedPerformance(ctx, strings.TrimSpace(cmd.PerformanceID))
	if err != nil {
		return entities.Performance{}, err
	}
	defer unlock()
	if performance.VotingEndsAt == nil {
		return entities.Performance{}, domainerrors.ErrInvalidState
	}

	now := uc.now()
	endsAt := performance.VotingEndsAt.Add(time.Duration(cmd.DeltaSeconds) * time.Second)
	performance.VotingEndsAt = &endsAt
	performance.UpdatedAt = now
	if err := uc.Performances.UpdatePerformance(ctx, performance); err != nil {
		return entities.Performance{}, err
	}
	if err := uc.publishPerformanceUpdated(ctx, performance, "voting_time_adjusted", now); err != nil {
		return entities.Performance{}, err
	}

	logger.Info("voting window adjusted",
		"event", "lifecycle_voting_time_adjusted",
		"module", "live-show/performance-lifecycle",
		"layer", "application",
		"performance_id", performance.PerformanceID,
		"delta_seconds", cmd.DeltaSeconds,
	)
	return performance, nil
}
