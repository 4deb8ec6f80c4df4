package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	performancelifecycle "ovation/contexts/live-show/performance-lifecycle"
	questionregistry "ovation/contexts/live-show/question-registry"
	voteengine "ovation/contexts/live-show/vote-engine"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "ovation/internal/platform/httpserver/docs"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	lifecycle performancelifecycle.Module
	votes     voteengine.Module
	questions questionregistry.Module
}

func New(
	lifecycle performancelifecycle.Module,
	votes voteengine.Module,
	questions questionregistry.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		lifecycle: lifecycle,
		votes:     votes,
		questions: questions,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routing table for httptest wiring.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/stage/v1/performances", s.handleStartPerformance)
	s.mux.HandleFunc("POST /api/stage/v1/performances/{performance_id}/voting/open", s.handleOpenVoting)
	s.mux.HandleFunc("POST /api/stage/v1/performances/{performance_id}/voting/pause", s.handleTogglePause)
	s.mux.HandleFunc("POST /api/stage/v1/performances/{performance_id}/voting/adjust", s.handleAdjustTime)
	s.mux.HandleFunc("POST /api/stage/v1/performances/{performance_id}/end", s.handleEndPerformance)
	s.mux.HandleFunc("POST /api/stage/v1/performances/{performance_id}/reset", s.handleResetPerformance)
	s.mux.HandleFunc("POST /api/stage/v1/events/{event_id}/schedule", s.handleScheduleLineup)
	s.mux.HandleFunc("GET /api/stage/v1/live", s.handleLivePerformance)
	s.mux.HandleFunc("GET /api/stage/v1/performances/{performance_id}/voting", s.handleVotingStatus)
	s.mux.HandleFunc("GET /api/stage/v1/events/{event_id}/schedule", s.handleLineup)

	s.mux.HandleFunc("POST /api/votes/v1/votes", s.handleSubmitVote)
	s.mux.HandleFunc("GET /api/votes/v1/events/{event_id}/rankings", s.handleEventRankings)
	s.mux.HandleFunc("GET /api/votes/v1/performances/{performance_id}/score", s.handlePerformanceScore)
	s.mux.HandleFunc("GET /api/votes/v1/performances/{performance_id}/user-score", s.handleUserScore)

	s.mux.HandleFunc("PUT /api/questions/v1/events/{event_id}/questions", s.handleSyncQuestions)
	s.mux.HandleFunc("DELETE /api/questions/v1/questions/{question_id}", s.handleDeleteQuestion)
	s.mux.HandleFunc("GET /api/questions/v1/events/{event_id}/questions", s.handleEventQuestions)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
