package httpadapter

import (
	"context"
	"log/slog"

	"ovation/contexts/live-show/vote-engine/application/commands"
	"ovation/contexts/live-show/vote-engine/application/queries"
	"ovation/contexts/live-show/vote-engine/domain/entities"
	"ovation/contexts/live-show/vote-engine/domain/services"
	httptransport "ovation/contexts/live-show/vote-engine/transport/http"
)

type Handler struct {
	Votes      commands.VoteUseCase
	Rankings   queries.RankingUseCase
	UserScores queries.UserScoreUseCase
	Logger     *slog.Logger
}

// SubmitVoteHandler godoc
// @Summary Submit a ballot for the live performance
// @Description Admits every answer of the ballot against the open voting window.
// @Tags vote-engine
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Voter id"
// @Param X-User-Role header string false "Voter role: fan, judge, admin"
// @Param request body httptransport.SubmitVoteRequest true "Ballot"
// @Success 200 {object} httptransport.SubmitVoteResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /api/votes/v1/votes [post]
func (h Handler) SubmitVoteHandler(
	ctx context.Context,
	userID string,
	role string,
	req httptransport.SubmitVoteRequest,
) (httptransport.SubmitVoteResponse, error) {
	result, err := h.Votes.SubmitVote(ctx, commands.SubmitVoteCommand{
		UserID:        userID,
		Role:          ParseRole(role),
		PerformanceID: req.PerformanceID,
		Answers:       req.Ratings,
		Comment:       req.Comment,
	})
	if err != nil {
		return httptransport.SubmitVoteResponse{}, err
	}
	return httptransport.SubmitVoteResponse{
		PerformanceID: req.PerformanceID,
		Accepted:      result.Accepted,
		Skipped:       result.Skipped,
	}, nil
}

// EventRankingsHandler godoc
// @Summary Event leaderboard
// @Description Returns bias-adjusted rankings for every scored performance of the event.
// @Tags vote-engine
// @Accept json
// @Produce json
// @Param event_id path string true "Event id"
// @Success 200 {object} httptransport.RankingsResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/votes/v1/events/{event_id}/rankings [get]
func (h Handler) EventRankingsHandler(ctx context.Context, eventID string) (httptransport.RankingsResponse, error) {
	scores, err := h.Rankings.EventRankings(ctx, eventID)
	if err != nil {
		return httptransport.RankingsResponse{}, err
	}
	return httptransport.RankingsResponse{
		EventID: eventID,
		Items:   mapRankings(scores),
	}, nil
}

// PerformanceScoreHandler godoc
// @Summary Current score of one performance
// @Tags vote-engine
// @Accept json
// @Produce json
// @Param performance_id path string true "Performance id"
// @Success 200 {object} httptransport.PerformanceScoreResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/votes/v1/performances/{performance_id}/score [get]
func (h Handler) PerformanceScoreHandler(ctx context.Context, performanceID string) (httptransport.PerformanceScoreResponse, error) {
	score, err := h.Rankings.PerformanceScore(ctx, performanceID)
	if err != nil {
		return httptransport.PerformanceScoreResponse{}, err
	}
	return httptransport.PerformanceScoreResponse{
		PerformanceID:     performanceID,
		BiasAdjustedScore: score,
	}, nil
}

// UserScoreHandler godoc
// @Summary One voter's points for a performance
// @Tags vote-engine
// @Accept json
// @Produce json
// @Param performance_id path string true "Performance id"
// @Param X-User-Id header string true "Voter id"
// @Param X-User-Role header string false "Voter role: fan, judge, admin"
// @Success 200 {object} httptransport.UserScoreResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/votes/v1/performances/{performance_id}/user-score [get]
func (h Handler) UserScoreHandler(
	ctx context.Context,
	performanceID string,
	userID string,
	role string,
) (httptransport.UserScoreResponse, error) {
	score, err := h.UserScores.Score(ctx, performanceID, userID, ParseRole(role))
	if err != nil {
		return httptransport.UserScoreResponse{}, err
	}
	return httptransport.UserScoreResponse{
		PerformanceID:     score.PerformanceID,
		UserID:            score.UserID,
		RatedPoints:       score.RatedPoints,
		MaxPossiblePoints: score.MaxPossiblePoints,
	}, nil
}

// ParseRole maps the transport role header to a domain role; anything
// unrecognized votes as a fan.
func ParseRole(role string) entities.Role {
	switch role {
	case "judge":
		return entities.RoleJudge
	case "admin":
		return entities.RoleAdmin
	default:
		return entities.RoleFan
	}
}

func mapRankings(scores []services.PerformanceScore) []httptransport.RankingItem {
	items := make([]httptransport.RankingItem, 0, len(scores))
	for index, score := range scores {
		items = append(items, httptransport.RankingItem{
			PerformanceID:     score.PerformanceID,
			RawRatingSum:      score.RawRatingSum,
			NormalizedVoters:  score.NormalizedVoters,
			BiasAdjustedScore: score.BiasAdjustedScore,
			ShareOfTotal:      score.ShareOfTotal,
			Rank:              index + 1,
		})
	}
	return items
}
