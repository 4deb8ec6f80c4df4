package commands

import (
	"log/slog"
	"sync"
	"time"

	"ovation/contexts/live-show/performance-lifecycle/ports"
)

// LifecycleUseCase owns every mutation of performance state. It is the only
// writer of the "one live performance per event" invariant; StartPerformance
// serializes on a per-event lock because close-previous-then-create is not a
// single store operation.
type LifecycleUseCase struct {
	Events        ports.EventRepository
	Artists       ports.ArtistRepository
	Performances  ports.PerformanceRepository
	Schedule      ports.ScheduleRepository
	Votes         ports.VotePurger
	Scores        ports.ScoreReader
	Outbox        ports.OutboxWriter
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	DefaultWindow time.Duration
	Logger        *slog.Logger

	Locks *EventLocks
}

// EventLocks hands out one mutex per event id. The map only ever grows; a
// show has a handful of events, so entries are never reclaimed.
type EventLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEventLocks() *EventLocks {
	return &EventLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *EventLocks) ForEvent(eventID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lock, ok := l.locks[eventID]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	l.locks[eventID] = lock
	return lock
}

func (uc LifecycleUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func (uc LifecycleUseCase) locks() *EventLocks {
	if uc.Locks != nil {
		return uc.Locks
	}
	// Zero-value wiring in tests still serializes within the process.
	return fallbackLocks
}

var fallbackLocks = NewEventLocks()

func (uc LifecycleUseCase) defaultWindow() time.Duration {
	if uc.DefaultWindow <= 0 {
		return 3 * time.Minute
	}
	return uc.DefaultWindow
}
