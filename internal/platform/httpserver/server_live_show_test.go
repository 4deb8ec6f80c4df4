package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	performancelifecycle "ovation/contexts/live-show/performance-lifecycle"
	lifecyclememory "ovation/contexts/live-show/performance-lifecycle/adapters/memory"
	lifecycleentities "ovation/contexts/live-show/performance-lifecycle/domain/entities"
	lifecycleerrors "ovation/contexts/live-show/performance-lifecycle/domain/errors"
	questionregistry "ovation/contexts/live-show/question-registry"
	registryentities "ovation/contexts/live-show/question-registry/domain/entities"
	voteengine "ovation/contexts/live-show/vote-engine"
	voteerrors "ovation/contexts/live-show/vote-engine/domain/errors"
)

// testDirectory mirrors the bootstrap bridge: lifecycle lookups translated
// into the vote engine's error vocabulary.
type testDirectory struct {
	store *lifecyclememory.Store
}

func (d testDirectory) GetPerformance(ctx context.Context, performanceID string) (lifecycleentities.Performance, error) {
	performance, err := d.store.GetPerformance(ctx, performanceID)
	if err != nil {
		if errors.Is(err, lifecycleerrors.ErrPerformanceNotFound) {
			return lifecycleentities.Performance{}, voteerrors.ErrPerformanceNotFound
		}
		return lifecycleentities.Performance{}, err
	}
	return performance, nil
}

func (d testDirectory) ListEventPerformances(ctx context.Context, eventID string) ([]lifecycleentities.Performance, error) {
	return d.store.ListEventPerformances(ctx, eventID)
}

func newTestServer() *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	lifecycle := performancelifecycle.NewInMemoryModule(logger)
	lifecycle.Store.SetEvent(lifecycleentities.Event{
		EventID:            "event-1",
		CompanyID:          "company-1",
		Name:               "Season Finale",
		Active:             true,
		PerformanceMinutes: 10,
		BreakMinutes:       5,
	})
	lifecycle.Store.SetArtist(lifecycleentities.Artist{
		ArtistID: "artist-1", Name: "Nova", Status: lifecycleentities.ArtistStatusUpcoming, LineupOrder: 1,
	})
	lifecycle.Store.SetArtist(lifecycleentities.Artist{
		ArtistID: "artist-2", Name: "Quill", Status: lifecycleentities.ArtistStatusUpcoming, LineupOrder: 2,
	})

	questions := questionregistry.NewInMemoryModule(logger)
	questions.Store.SetQuestion(registryentities.Question{
		QuestionID: "q-stage", EventID: "event-1", Text: "Stage presence",
		Type: registryentities.QuestionTypeRating, Target: registryentities.QuestionTargetBoth, DisplayOrder: 0,
	})
	questions.Store.SetQuestion(registryentities.Question{
		QuestionID: "q-vocals", EventID: "event-1", Text: "Vocals",
		Type: registryentities.QuestionTypeRating, Target: registryentities.QuestionTargetBoth, DisplayOrder: 1,
	})
	questions.Store.SetQuestion(registryentities.Question{
		QuestionID: "q-feedback", EventID: "event-1", Text: "Feedback",
		Type: registryentities.QuestionTypeText, Target: registryentities.QuestionTargetJudge, DisplayOrder: 2,
	})

	votes := voteengine.NewInMemoryModule(testDirectory{store: lifecycle.Store}, questions.Store, logger)
	return New(lifecycle, votes, questions, logger, ":0")
}

func doJSON(t *testing.T, server *Server, method, path, userID, role string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	if role != "" {
		req.Header.Set("X-User-Role", role)
	}
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response %s: %v", rr.Body.String(), err)
	}
}

func TestStartPerformanceRequiresUserHeader(t *testing.T) {
	server := newTestServer()
	rr := doJSON(t, server, http.MethodPost, "/api/stage/v1/performances", "", "", map[string]string{"artist_id": "artist-1"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLiveStageEmptyBeforeShowStarts(t *testing.T) {
	server := newTestServer()
	rr := doJSON(t, server, http.MethodGet, "/api/stage/v1/live", "", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Live bool `json:"live"`
	}
	decodeBody(t, rr, &resp)
	if resp.Live {
		t.Fatalf("expected no live performance, got %s", rr.Body.String())
	}
}

func TestVotingFlowFromStartToRankings(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPost, "/api/stage/v1/performances", "admin-1", "admin", map[string]string{"artist_id": "artist-1"})
	if rr.Code != http.StatusOK {
		t.Fatalf("start performance: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var started struct {
		PerformanceID string `json:"performance_id"`
		Status        string `json:"status"`
		VotingState   string `json:"voting_state"`
	}
	decodeBody(t, rr, &started)
	if started.Status != "live" || started.VotingState != "not_started" {
		t.Fatalf("expected a live performance with voting not started, got %s", rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/api/stage/v1/performances/"+started.PerformanceID+"/voting/open", "admin-1", "admin", map[string]int{"duration_seconds": 120})
	if rr.Code != http.StatusOK {
		t.Fatalf("open voting: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/api/stage/v1/performances/"+started.PerformanceID+"/voting", "", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("voting status: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var status struct {
		State       string `json:"state"`
		SecondsLeft int    `json:"seconds_left"`
	}
	decodeBody(t, rr, &status)
	if status.State != "open" || status.SecondsLeft <= 0 {
		t.Fatalf("expected an open window with time left, got %s", rr.Body.String())
	}

	ballot := map[string]any{
		"performance_id": started.PerformanceID,
		"ratings":        map[string]string{"q-stage": "5", "q-vocals": "4"},
		"comment":        "amazing set",
	}
	rr = doJSON(t, server, http.MethodPost, "/api/votes/v1/votes", "fan-1", "fan", ballot)
	if rr.Code != http.StatusOK {
		t.Fatalf("submit vote: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var submitted struct {
		Accepted int `json:"accepted"`
		Skipped  int `json:"skipped"`
	}
	decodeBody(t, rr, &submitted)
	if submitted.Accepted != 2 || submitted.Skipped != 0 {
		t.Fatalf("expected 2 accepted answers, got %s", rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/api/votes/v1/votes", "fan-1", "fan", ballot)
	if rr.Code != http.StatusConflict {
		t.Fatalf("duplicate vote: expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
	var conflict struct {
		Code string `json:"code"`
	}
	decodeBody(t, rr, &conflict)
	if conflict.Code != "already_voted" {
		t.Fatalf("expected already_voted code, got %s", rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/api/votes/v1/events/event-1/rankings", "", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("rankings: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var rankings struct {
		EventID string `json:"event_id"`
		Items   []struct {
			PerformanceID string  `json:"performance_id"`
			Rating        float64 `json:"rating"`
			Rank          int     `json:"rank"`
		} `json:"items"`
	}
	decodeBody(t, rr, &rankings)
	if len(rankings.Items) != 1 {
		t.Fatalf("expected one ranked performance, got %s", rr.Body.String())
	}
	if rankings.Items[0].PerformanceID != started.PerformanceID || rankings.Items[0].Rank != 1 || rankings.Items[0].Rating != 9 {
		t.Fatalf("unexpected ranking row: %s", rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/api/votes/v1/performances/"+started.PerformanceID+"/user-score", "fan-1", "fan", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("user score: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var score struct {
		RatedPoints       int `json:"rated_points"`
		MaxPossiblePoints int `json:"max_possible_points"`
	}
	decodeBody(t, rr, &score)
	if score.RatedPoints != 9 || score.MaxPossiblePoints != 10 {
		t.Fatalf("expected 9 of 10 points, got %s", rr.Body.String())
	}
}

func TestSubmitVoteBeforeWindowOpens(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPost, "/api/stage/v1/performances", "admin-1", "admin", map[string]string{"artist_id": "artist-1"})
	if rr.Code != http.StatusOK {
		t.Fatalf("start performance: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var started struct {
		PerformanceID string `json:"performance_id"`
	}
	decodeBody(t, rr, &started)

	rr = doJSON(t, server, http.MethodPost, "/api/votes/v1/votes", "fan-1", "fan", map[string]any{
		"performance_id": started.PerformanceID,
		"ratings":        map[string]string{"q-stage": "5"},
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 before the window opens, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Code string `json:"code"`
	}
	decodeBody(t, rr, &resp)
	if resp.Code != "voting_not_open" {
		t.Fatalf("expected voting_not_open code, got %s", rr.Body.String())
	}
}

func TestSubmitVoteUnknownPerformance(t *testing.T) {
	server := newTestServer()
	rr := doJSON(t, server, http.MethodPost, "/api/votes/v1/votes", "fan-1", "fan", map[string]any{
		"performance_id": "perf-missing",
		"ratings":        map[string]string{"q-stage": "5"},
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown performance, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestQuestionSyncAndRoleFilteredCatalog(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPut, "/api/questions/v1/events/event-2/questions", "admin-1", "admin", map[string]any{
		"items": []map[string]string{
			{"text": "Overall impression", "type": "rating"},
			{"text": "Notes for the artist", "type": "text", "target": "judge"},
		},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("sync questions: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var synced struct {
		Items []struct {
			QuestionID string `json:"question_id"`
			Target     string `json:"target"`
		} `json:"items"`
		RatingQuestionCount int `json:"rating_question_count"`
	}
	decodeBody(t, rr, &synced)
	if len(synced.Items) != 2 || synced.Items[0].QuestionID == "" {
		t.Fatalf("expected two saved questions with ids, got %s", rr.Body.String())
	}
	if synced.Items[0].Target != "both" {
		t.Fatalf("expected blank target defaulted to both, got %s", rr.Body.String())
	}
	if synced.RatingQuestionCount != 1 {
		t.Fatalf("expected rating question count 1 after sync, got %s", rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/api/questions/v1/events/event-2/questions", "fan-1", "fan", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("fan catalog: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var fanCatalog struct {
		Items []struct {
			Type string `json:"type"`
		} `json:"items"`
		RatingQuestionCount int `json:"rating_question_count"`
	}
	decodeBody(t, rr, &fanCatalog)
	if len(fanCatalog.Items) != 1 || fanCatalog.Items[0].Type != "rating" {
		t.Fatalf("expected fans to see only the rating question, got %s", rr.Body.String())
	}
	if fanCatalog.RatingQuestionCount != 1 {
		t.Fatalf("expected fan rating question count 1, got %s", rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/api/questions/v1/events/event-2/questions", "admin-1", "admin", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("admin catalog: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var adminCatalog struct {
		Items []struct {
			QuestionID string `json:"question_id"`
		} `json:"items"`
	}
	decodeBody(t, rr, &adminCatalog)
	if len(adminCatalog.Items) != 2 {
		t.Fatalf("expected admins to see the full catalog, got %s", rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodDelete, "/api/questions/v1/questions/"+adminCatalog.Items[0].QuestionID, "admin-1", "admin", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete question: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr = doJSON(t, server, http.MethodDelete, "/api/questions/v1/questions/"+adminCatalog.Items[0].QuestionID, "admin-1", "admin", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestScheduleEndpointBuildsLineup(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPost, "/api/stage/v1/events/event-1/schedule", "admin-1", "admin", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("schedule lineup: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var built struct {
		Items []struct {
			ArtistID        string `json:"artist_id"`
			DurationMinutes int    `json:"duration_minutes"`
		} `json:"items"`
	}
	decodeBody(t, rr, &built)
	if len(built.Items) != 2 || built.Items[0].ArtistID != "artist-1" || built.Items[0].DurationMinutes != 10 {
		t.Fatalf("unexpected schedule: %s", rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/api/stage/v1/events/event-1/schedule", "", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("read schedule: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var read struct {
		Items []struct {
			ArtistID string `json:"artist_id"`
		} `json:"items"`
	}
	decodeBody(t, rr, &read)
	if len(read.Items) != 2 {
		t.Fatalf("expected the stored schedule, got %s", rr.Body.String())
	}
}

func TestEndPerformanceFreesTheStage(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPost, "/api/stage/v1/performances", "admin-1", "admin", map[string]string{"artist_id": "artist-1"})
	if rr.Code != http.StatusOK {
		t.Fatalf("start performance: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var started struct {
		PerformanceID string `json:"performance_id"`
	}
	decodeBody(t, rr, &started)

	rr = doJSON(t, server, http.MethodPost, "/api/stage/v1/performances/"+started.PerformanceID+"/end", "admin-1", "admin", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("end performance: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/api/stage/v1/live", "", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("live stage: expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var live struct {
		Live bool `json:"live"`
	}
	decodeBody(t, rr, &live)
	if live.Live {
		t.Fatalf("expected an empty stage after ending, got %s", rr.Body.String())
	}
}
