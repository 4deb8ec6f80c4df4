package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	performancelifecycle "ovation/contexts/live-show/performance-lifecycle"
	lifecyclepostgres "ovation/contexts/live-show/performance-lifecycle/adapters/postgres"
	lifecycleworkers "ovation/contexts/live-show/performance-lifecycle/application/workers"
	lifecycleentities "ovation/contexts/live-show/performance-lifecycle/domain/entities"
	lifecycleerrors "ovation/contexts/live-show/performance-lifecycle/domain/errors"
	lifecycleports "ovation/contexts/live-show/performance-lifecycle/ports"
	questionregistry "ovation/contexts/live-show/question-registry"
	registrypostgres "ovation/contexts/live-show/question-registry/adapters/postgres"
	registryworkers "ovation/contexts/live-show/question-registry/application/workers"
	voteengine "ovation/contexts/live-show/vote-engine"
	votepostgres "ovation/contexts/live-show/vote-engine/adapters/postgres"
	votequeries "ovation/contexts/live-show/vote-engine/application/queries"
	voteworkers "ovation/contexts/live-show/vote-engine/application/workers"
	voteerrors "ovation/contexts/live-show/vote-engine/domain/errors"
	"ovation/contexts/live-show/vote-engine/domain/services"
	"ovation/internal/platform/config"
	"ovation/internal/platform/db"
	"ovation/internal/platform/httpserver"
	"ovation/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres       *db.Postgres
	lifecycleRelay lifecycleworkers.OutboxRelay
	voteRelay      voteworkers.OutboxRelay
	registryRelay  registryworkers.OutboxRelay
	pollInterval   time.Duration
	logger         *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	lifecycleRepo := lifecyclepostgres.NewRepository(pg.DB, logger)
	voteRepo := votepostgres.NewRepository(pg.DB, logger)
	registryRepo := registrypostgres.NewRepository(pg.DB, logger)

	voteModule := voteengine.NewModule(voteengine.Dependencies{
		Votes:        voteRepo,
		Performances: performanceDirectory{Performances: lifecycleRepo},
		Questions:    registryRepo,
		Outbox:       voteRepo,
		Clock:        votepostgres.SystemClock{},
		IDGen:        votepostgres.UUIDGenerator{},
		Scoring: services.ScoringConfig{
			BiasWeight:    cfg.RankingBiasWeight,
			QuestionFloor: cfg.RankingQuestionFloor,
			MaxRating:     cfg.RatingMax,
		},
		RatingMin: cfg.RatingMin,
		Logger:    logger,
	})

	lifecycleModule := performancelifecycle.NewModule(performancelifecycle.Dependencies{
		Events:        lifecycleRepo,
		Artists:       lifecycleRepo,
		Performances:  lifecycleRepo,
		Schedule:      lifecycleRepo,
		Votes:         voteRepo,
		Scores:        scoreReader{Rankings: voteModule.Rankings},
		Outbox:        lifecycleRepo,
		Clock:         lifecyclepostgres.SystemClock{},
		IDGen:         lifecyclepostgres.UUIDGenerator{},
		DefaultWindow: cfg.DefaultVotingWindow,
		Logger:        logger,
	})

	registryModule := questionregistry.NewModule(questionregistry.Dependencies{
		Questions: registryRepo,
		Votes:     voteRepo,
		Outbox:    registryRepo,
		Clock:     registrypostgres.SystemClock{},
		IDGen:     registrypostgres.UUIDGenerator{},
		Logger:    logger,
	})

	server := httpserver.New(lifecycleModule, voteModule, registryModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	lifecycleRepo := lifecyclepostgres.NewRepository(pg.DB, logger)
	voteRepo := votepostgres.NewRepository(pg.DB, logger)
	registryRepo := registrypostgres.NewRepository(pg.DB, logger)

	return &WorkerApp{
		postgres: pg,
		lifecycleRelay: lifecycleworkers.OutboxRelay{
			Outbox:    lifecycleRepo,
			Publisher: kafka,
			Clock:     lifecyclepostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		voteRelay: voteworkers.OutboxRelay{
			Outbox:    voteRepo,
			Publisher: kafka,
			Clock:     votepostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		registryRelay: registryworkers.OutboxRelay{
			Outbox:    registryRepo,
			Publisher: kafka,
			Clock:     registrypostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.lifecycleRelay.RunOnce(ctx); err != nil {
			return err
		}
		if err := w.voteRelay.RunOnce(ctx); err != nil {
			return err
		}
		if err := w.registryRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

// performanceDirectory exposes lifecycle performances to the vote engine and
// translates lifecycle lookups into the vote engine's error vocabulary.
type performanceDirectory struct {
	Performances lifecycleports.PerformanceRepository
}

func (d performanceDirectory) GetPerformance(ctx context.Context, performanceID string) (lifecycleentities.Performance, error) {
	performance, err := d.Performances.GetPerformance(ctx, performanceID)
	if err != nil {
		if errors.Is(err, lifecycleerrors.ErrPerformanceNotFound) {
			return lifecycleentities.Performance{}, voteerrors.ErrPerformanceNotFound
		}
		return lifecycleentities.Performance{}, err
	}
	return performance, nil
}

func (d performanceDirectory) ListEventPerformances(ctx context.Context, eventID string) ([]lifecycleentities.Performance, error) {
	return d.Performances.ListEventPerformances(ctx, eventID)
}

// scoreReader feeds the vote engine's aggregate into lifecycle event payloads.
type scoreReader struct {
	Rankings votequeries.RankingUseCase
}

func (s scoreReader) PerformanceTally(ctx context.Context, performanceID string) (lifecycleports.Tally, error) {
	tally, err := s.Rankings.PerformanceTally(ctx, performanceID)
	if err != nil {
		return lifecycleports.Tally{}, err
	}
	return lifecycleports.Tally{
		DistinctVoters:    tally.DistinctVoters,
		BiasAdjustedScore: tally.BiasAdjustedScore,
	}, nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
