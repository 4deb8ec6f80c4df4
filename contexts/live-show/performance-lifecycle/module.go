package performancelifecycle

import (
	"log/slog"
	"time"

	httpadapter "ovation/contexts/live-show/performance-lifecycle/adapters/http"
	"ovation/contexts/live-show/performance-lifecycle/adapters/memory"
	"ovation/contexts/live-show/performance-lifecycle/application/commands"
	"ovation/contexts/live-show/performance-lifecycle/application/queries"
	"ovation/contexts/live-show/performance-lifecycle/ports"
)

type Module struct {
	Handler   httpadapter.Handler
	Lifecycle commands.LifecycleUseCase
	Stage     queries.StageStatusUseCase
	Store     *memory.Store
}

type Dependencies struct {
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
}

func NewModule(deps Dependencies) Module {
	lifecycle := commands.LifecycleUseCase{
		Events:        deps.Events,
		Artists:       deps.Artists,
		Performances:  deps.Performances,
		Schedule:      deps.Schedule,
		Votes:         deps.Votes,
		Scores:        deps.Scores,
		Outbox:        deps.Outbox,
		Clock:         deps.Clock,
		IDGen:         deps.IDGen,
		DefaultWindow: deps.DefaultWindow,
		Logger:        deps.Logger,
		Locks:         commands.NewEventLocks(),
	}
	stage := queries.StageStatusUseCase{
		Events:       deps.Events,
		Artists:      deps.Artists,
		Performances: deps.Performances,
		Schedule:     deps.Schedule,
		Clock:        deps.Clock,
	}
	return Module{
		Handler: httpadapter.Handler{
			Lifecycle: lifecycle,
			Stage:     stage,
			Logger:    deps.Logger,
		},
		Lifecycle: lifecycle,
		Stage:     stage,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Events:       store,
		Artists:      store,
		Performances: store,
		Schedule:     store,
		Outbox:       store,
		Clock:        store,
		IDGen:        store,
		Logger:       logger,
	})
	module.Store = store
	return module
}
