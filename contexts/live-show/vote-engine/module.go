package voteengine

import (
	"log/slog"

	httpadapter "ovation/contexts/live-show/vote-engine/adapters/http"
	"ovation/contexts/live-show/vote-engine/adapters/memory"
	"ovation/contexts/live-show/vote-engine/application/commands"
	"ovation/contexts/live-show/vote-engine/application/queries"
	"ovation/contexts/live-show/vote-engine/domain/services"
	"ovation/contexts/live-show/vote-engine/ports"
)

type Module struct {
	Handler    httpadapter.Handler
	Votes      commands.VoteUseCase
	Rankings   queries.RankingUseCase
	UserScores queries.UserScoreUseCase
	Store      *memory.Store
}

type Dependencies struct {
	Votes        ports.VoteLedger
	Performances ports.PerformanceDirectory
	Questions    ports.QuestionDirectory
	Outbox       ports.OutboxWriter
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	Scoring      services.ScoringConfig
	RatingMin    int
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	votes := commands.VoteUseCase{
		Votes:        deps.Votes,
		Performances: deps.Performances,
		Questions:    deps.Questions,
		Outbox:       deps.Outbox,
		Clock:        deps.Clock,
		IDGen:        deps.IDGen,
		RatingMin:    deps.RatingMin,
		RatingMax:    deps.Scoring.MaxRating,
		Logger:       deps.Logger,
	}
	rankings := queries.RankingUseCase{
		Votes:        deps.Votes,
		Performances: deps.Performances,
		Questions:    deps.Questions,
		Config:       deps.Scoring,
	}
	userScores := queries.UserScoreUseCase{
		Votes:        deps.Votes,
		Performances: deps.Performances,
		Questions:    deps.Questions,
		MaxRating:    deps.Scoring.MaxRating,
	}
	return Module{
		Handler: httpadapter.Handler{
			Votes:      votes,
			Rankings:   rankings,
			UserScores: userScores,
			Logger:     deps.Logger,
		},
		Votes:      votes,
		Rankings:   rankings,
		UserScores: userScores,
	}
}

// NewInMemoryModule wires the engine over the in-memory ledger. Performance
// and question directories still come from the caller because those belong
// to the other services.
func NewInMemoryModule(
	performances ports.PerformanceDirectory,
	questions ports.QuestionDirectory,
	logger *slog.Logger,
) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Votes:        store,
		Performances: performances,
		Questions:    questions,
		Outbox:       store,
		Clock:        store,
		IDGen:        store,
		Logger:       logger,
	})
	module.Store = store
	return module
}
