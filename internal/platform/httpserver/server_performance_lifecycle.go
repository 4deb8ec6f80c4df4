package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	lifecycleerrors "ovation/contexts/live-show/performance-lifecycle/domain/errors"
	lifecyclehttp "ovation/contexts/live-show/performance-lifecycle/transport/http"
)

func (s *Server) handleStartPerformance(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var req lifecyclehttp.StartPerformanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLifecycleError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.lifecycle.Handler.StartPerformanceHandler(r.Context(), req)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOpenVoting(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var req lifecyclehttp.OpenVotingRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeLifecycleError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}
	resp, err := s.lifecycle.Handler.OpenVotingHandler(r.Context(), r.PathValue("performance_id"), req)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTogglePause(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	resp, err := s.lifecycle.Handler.TogglePauseHandler(r.Context(), r.PathValue("performance_id"))
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdjustTime(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var req lifecyclehttp.AdjustTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLifecycleError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.lifecycle.Handler.AdjustTimeHandler(r.Context(), r.PathValue("performance_id"), req)
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEndPerformance(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	resp, err := s.lifecycle.Handler.EndPerformanceHandler(r.Context(), r.PathValue("performance_id"))
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResetPerformance(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	resp, err := s.lifecycle.Handler.ResetPerformanceHandler(r.Context(), r.PathValue("performance_id"))
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleScheduleLineup(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	resp, err := s.lifecycle.Handler.ScheduleLineupHandler(r.Context(), r.PathValue("event_id"))
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLivePerformance(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lifecycle.Handler.LivePerformanceHandler(r.Context(), r.URL.Query().Get("event_id"))
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVotingStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lifecycle.Handler.VotingStatusHandler(r.Context(), r.PathValue("performance_id"))
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLineup(w http.ResponseWriter, r *http.Request) {
	resp, err := s.lifecycle.Handler.LineupHandler(r.Context(), r.PathValue("event_id"))
	if err != nil {
		writeLifecycleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("X-User-Id") == "" {
		writeLifecycleError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return false
	}
	return true
}

func writeLifecycleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lifecycleerrors.ErrNoActiveEvent):
		writeLifecycleError(w, http.StatusConflict, "no_active_event", err.Error())
	case errors.Is(err, lifecycleerrors.ErrEventNotFound),
		errors.Is(err, lifecycleerrors.ErrArtistNotFound),
		errors.Is(err, lifecycleerrors.ErrPerformanceNotFound):
		writeLifecycleError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, lifecycleerrors.ErrInvalidState):
		writeLifecycleError(w, http.StatusUnprocessableEntity, "invalid_state", err.Error())
	case errors.Is(err, lifecycleerrors.ErrInvalidInput):
		writeLifecycleError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeLifecycleError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLifecycleError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, lifecyclehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
