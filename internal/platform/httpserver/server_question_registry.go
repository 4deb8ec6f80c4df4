package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	registryerrors "ovation/contexts/live-show/question-registry/domain/errors"
	registryhttp "ovation/contexts/live-show/question-registry/transport/http"
)

func (s *Server) handleSyncQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-User-Id") == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	var req registryhttp.SyncQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.questions.Handler.SyncQuestionsHandler(r.Context(), r.PathValue("event_id"), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-User-Id") == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.questions.Handler.DeleteQuestionHandler(r.Context(), r.PathValue("question_id"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEventQuestions(w http.ResponseWriter, r *http.Request) {
	resp, err := s.questions.Handler.EventQuestionsHandler(
		r.Context(),
		r.PathValue("event_id"),
		r.Header.Get("X-User-Role"),
	)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeRegistryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registryerrors.ErrQuestionNotFound),
		errors.Is(err, registryerrors.ErrEventNotFound):
		writeRegistryError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, registryerrors.ErrInvalidQuestionInput):
		writeRegistryError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeRegistryError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRegistryError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, registryhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
