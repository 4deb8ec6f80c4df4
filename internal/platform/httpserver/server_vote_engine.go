package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	voteerrors "ovation/contexts/live-show/vote-engine/domain/errors"
	votehttp "ovation/contexts/live-show/vote-engine/transport/http"
)

func (s *Server) handleSubmitVote(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeVoteError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req votehttp.SubmitVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeVoteError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.votes.Handler.SubmitVoteHandler(r.Context(), userID, r.Header.Get("X-User-Role"), req)
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEventRankings(w http.ResponseWriter, r *http.Request) {
	resp, err := s.votes.Handler.EventRankingsHandler(r.Context(), r.PathValue("event_id"))
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePerformanceScore(w http.ResponseWriter, r *http.Request) {
	resp, err := s.votes.Handler.PerformanceScoreHandler(r.Context(), r.PathValue("performance_id"))
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUserScore(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	if userID == "" {
		writeVoteError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.votes.Handler.UserScoreHandler(
		r.Context(),
		r.PathValue("performance_id"),
		userID,
		r.Header.Get("X-User-Role"),
	)
	if err != nil {
		writeVoteDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeVoteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, voteerrors.ErrSessionClosed):
		writeVoteError(w, http.StatusConflict, "session_closed", err.Error())
	case errors.Is(err, voteerrors.ErrVotingNotOpen):
		writeVoteError(w, http.StatusConflict, "voting_not_open", err.Error())
	case errors.Is(err, voteerrors.ErrVotingExpired):
		writeVoteError(w, http.StatusConflict, "voting_expired", err.Error())
	case errors.Is(err, voteerrors.ErrVotingPaused):
		writeVoteError(w, http.StatusConflict, "voting_paused", err.Error())
	case errors.Is(err, voteerrors.ErrAlreadyVoted):
		writeVoteError(w, http.StatusConflict, "already_voted", err.Error())
	case errors.Is(err, voteerrors.ErrInvalidRating):
		writeVoteError(w, http.StatusUnprocessableEntity, "invalid_rating", err.Error())
	case errors.Is(err, voteerrors.ErrInvalidVoteInput):
		writeVoteError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, voteerrors.ErrPerformanceNotFound),
		errors.Is(err, voteerrors.ErrEventNotFound):
		writeVoteError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeVoteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeVoteError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, votehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
