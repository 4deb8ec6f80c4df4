package queries

import (
	"context"
	"math"
	"strings"

	"ovation/contexts/live-show/vote-engine/domain/services"
	"ovation/contexts/live-show/vote-engine/ports"
)

// RankingUseCase computes leaderboard reads on demand. Nothing is cached;
// a show has tens of performances, not millions, and the admin expects the
// board to move the moment a ballot lands.
type RankingUseCase struct {
	Votes        ports.VoteLedger
	Performances ports.PerformanceDirectory
	Questions    ports.QuestionDirectory
	Config       services.ScoringConfig
}

// Tally is the small aggregate the lifecycle service embeds in its
// performance.updated payloads.
type Tally struct {
	DistinctVoters    int
	RawRatingSum      float64
	BiasAdjustedScore float64
}

// EventRankings scores every performance of the event that received rating
// answers, best first.
func (uc RankingUseCase) EventRankings(ctx context.Context, eventID string) ([]services.PerformanceScore, error) {
	performances, err := uc.Performances.ListEventPerformances(ctx, strings.TrimSpace(eventID))
	if err != nil {
		return nil, err
	}
	if len(performances) == 0 {
		return nil, nil
	}
	order := make([]string, 0, len(performances))
	for _, performance := range performances {
		order = append(order, performance.PerformanceID)
	}
	votes, err := uc.Votes.ListVotesByPerformances(ctx, order)
	if err != nil {
		return nil, err
	}
	questionCount, err := uc.ratingQuestionCount(ctx, strings.TrimSpace(eventID))
	if err != nil {
		return nil, err
	}
	return services.ComputeRankings(votes, order, questionCount, uc.Config), nil
}

// PerformanceScore returns the bias-adjusted score for one performance,
// rounded to two decimals; zero when the performance has no rating answers.
func (uc RankingUseCase) PerformanceScore(ctx context.Context, performanceID string) (float64, error) {
	performance, err := uc.Performances.GetPerformance(ctx, strings.TrimSpace(performanceID))
	if err != nil {
		return 0, err
	}
	rankings, err := uc.EventRankings(ctx, performance.EventID)
	if err != nil {
		return 0, err
	}
	for _, row := range rankings {
		if row.PerformanceID == performance.PerformanceID {
			return math.Round(row.BiasAdjustedScore*100) / 100, nil
		}
	}
	return 0, nil
}

// PerformanceTally aggregates one performance for the change notifier:
// distinct voters, raw rating sum, and the current bias-adjusted score.
func (uc RankingUseCase) PerformanceTally(ctx context.Context, performanceID string) (Tally, error) {
	votes, err := uc.Votes.ListPerformanceVotes(ctx, strings.TrimSpace(performanceID))
	if err != nil {
		return Tally{}, err
	}
	voters := make(map[string]struct{})
	rawSum := 0.0
	for _, vote := range votes {
		voters[vote.UserID] = struct{}{}
		if vote.IsRating() {
			rawSum += float64(*vote.Rating)
		}
	}
	score, err := uc.PerformanceScore(ctx, performanceID)
	if err != nil {
		return Tally{}, err
	}
	return Tally{
		DistinctVoters:    len(voters),
		RawRatingSum:      rawSum,
		BiasAdjustedScore: score,
	}, nil
}

func (uc RankingUseCase) ratingQuestionCount(ctx context.Context, eventID string) (int, error) {
	questions, err := uc.Questions.ListEventQuestions(ctx, eventID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, question := range questions {
		if question.IsRating() {
			count++
		}
	}
	return count, nil
}
