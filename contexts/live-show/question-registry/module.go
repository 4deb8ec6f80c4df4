package questionregistry

import (
	"log/slog"

	httpadapter "ovation/contexts/live-show/question-registry/adapters/http"
	"ovation/contexts/live-show/question-registry/adapters/memory"
	"ovation/contexts/live-show/question-registry/application/commands"
	"ovation/contexts/live-show/question-registry/application/queries"
	"ovation/contexts/live-show/question-registry/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Registry commands.RegistryUseCase
	Catalog  queries.CatalogUseCase
	Store    *memory.Store
}

type Dependencies struct {
	Questions ports.QuestionRepository
	Votes     ports.QuestionVotePurger
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	registry := commands.RegistryUseCase{
		Questions: deps.Questions,
		Votes:     deps.Votes,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	catalog := queries.CatalogUseCase{
		Questions: deps.Questions,
	}
	return Module{
		Handler: httpadapter.Handler{
			Registry: registry,
			Catalog:  catalog,
			Logger:   deps.Logger,
		},
		Registry: registry,
		Catalog:  catalog,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Questions: store,
		Outbox:    store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
