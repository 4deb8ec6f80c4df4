package services

import (
	"fmt"
	"math"
	"testing"

	"ovation/contexts/live-show/vote-engine/domain/entities"
)

func ratingVote(performanceID, userID, questionID string, rating int) entities.Vote {
	value := rating
	return entities.Vote{
		VoteID:        fmt.Sprintf("%s:%s:%s", performanceID, userID, questionID),
		UserID:        userID,
		PerformanceID: performanceID,
		QuestionID:    questionID,
		Rating:        &value,
	}
}

// fullBallot answers every rating question of a four-question event with the
// same rating.
func fullBallot(performanceID, userID string, rating int) []entities.Vote {
	votes := make([]entities.Vote, 0, 4)
	for q := 1; q <= 4; q++ {
		votes = append(votes, ratingVote(performanceID, userID, fmt.Sprintf("q-%d", q), rating))
	}
	return votes
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestComputeRankingsPinnedScenario(t *testing.T) {
	// Performance A: two voters, every answer a 5. Raw 40, 2 normalized voters.
	// Performance B: one voter, every answer a 1. Raw 4, 1 normalized voter.
	// Event mean mu = 44/3; A = (40+10mu)/12, B = (4+10mu)/11.
	votes := append(fullBallot("perf-a", "user-1", 5), fullBallot("perf-a", "user-2", 5)...)
	votes = append(votes, fullBallot("perf-b", "user-3", 1)...)

	scores := ComputeRankings(votes, []string{"perf-a", "perf-b"}, 4, ScoringConfig{})
	if len(scores) != 2 {
		t.Fatalf("expected 2 ranked performances, got %d", len(scores))
	}
	if scores[0].PerformanceID != "perf-a" || scores[1].PerformanceID != "perf-b" {
		t.Fatalf("expected perf-a ahead of perf-b, got %s then %s", scores[0].PerformanceID, scores[1].PerformanceID)
	}

	a, b := scores[0], scores[1]
	if a.RawRatingSum != 40 || b.RawRatingSum != 4 {
		t.Fatalf("expected raw sums 40 and 4, got %v and %v", a.RawRatingSum, b.RawRatingSum)
	}
	if !almostEqual(a.NormalizedVoters, 2) || !almostEqual(b.NormalizedVoters, 1) {
		t.Fatalf("expected 2 and 1 normalized voters, got %v and %v", a.NormalizedVoters, b.NormalizedVoters)
	}
	if !almostEqual(a.BiasAdjustedScore, 15.5555555556) {
		t.Fatalf("expected perf-a score 15.5556, got %v", a.BiasAdjustedScore)
	}
	if !almostEqual(b.BiasAdjustedScore, 13.6969696970) {
		t.Fatalf("expected perf-b score 13.6970, got %v", b.BiasAdjustedScore)
	}
	if !almostEqual(a.ShareOfTotal, 40.0/44.0*100) || !almostEqual(b.ShareOfTotal, 4.0/44.0*100) {
		t.Fatalf("expected shares 90.91 and 9.09, got %v and %v", a.ShareOfTotal, b.ShareOfTotal)
	}
}

func TestComputeRankingsPullsScoresTowardEventMean(t *testing.T) {
	// A sparse performance sits between its own per-voter raw sum and the
	// event mean, never beyond either.
	votes := append(fullBallot("perf-a", "user-1", 4), fullBallot("perf-a", "user-2", 4)...)
	votes = append(votes, fullBallot("perf-a", "user-3", 4)...)
	votes = append(votes, ratingVote("perf-b", "user-4", "q-1", 5))

	scores := ComputeRankings(votes, []string{"perf-a", "perf-b"}, 4, ScoringConfig{})
	if len(scores) != 2 {
		t.Fatalf("expected 2 ranked performances, got %d", len(scores))
	}
	for _, score := range scores {
		rawAverage := score.RawRatingSum / score.NormalizedVoters
		low := math.Min(rawAverage, 53.0/3.25)
		high := math.Max(rawAverage, 53.0/3.25)
		if score.BiasAdjustedScore < low-1e-9 || score.BiasAdjustedScore > high+1e-9 {
			t.Fatalf("score %v for %s outside [%v, %v]", score.BiasAdjustedScore, score.PerformanceID, low, high)
		}
	}
}

func TestComputeRankingsEmptyWithoutRatingVotes(t *testing.T) {
	votes := []entities.Vote{
		{VoteID: "v-1", UserID: "user-1", PerformanceID: "perf-a", QuestionID: "q-text", Comment: "great set"},
	}
	if scores := ComputeRankings(votes, []string{"perf-a"}, 4, ScoringConfig{}); scores != nil {
		t.Fatalf("expected no rankings without rating votes, got %v", scores)
	}
	if scores := ComputeRankings(nil, []string{"perf-a"}, 4, ScoringConfig{}); scores != nil {
		t.Fatalf("expected no rankings without votes, got %v", scores)
	}
}

func TestComputeRankingsOmitsPerformancesWithoutRatings(t *testing.T) {
	// A performance that drew no rating answers stays out of the board
	// entirely rather than appearing at the event mean.
	votes := append(fullBallot("perf-a", "user-1", 8),
		entities.Vote{VoteID: "v-text", UserID: "user-2", PerformanceID: "perf-b", QuestionID: "q-text", Comment: "loved it"},
	)

	scores := ComputeRankings(votes, []string{"perf-a", "perf-b", "perf-c"}, 4, ScoringConfig{})
	if len(scores) != 1 {
		t.Fatalf("expected one ranked performance, got %d", len(scores))
	}
	if scores[0].PerformanceID != "perf-a" {
		t.Fatalf("expected perf-a ranked, got %q", scores[0].PerformanceID)
	}
	for _, score := range scores {
		if score.PerformanceID == "perf-b" || score.PerformanceID == "perf-c" {
			t.Fatalf("expected unrated performance %q omitted from rankings", score.PerformanceID)
		}
	}
}

func TestComputeRankingsTieBreakFollowsCreationOrder(t *testing.T) {
	// Identical tallies; votes arrive for perf-b first, but perf-a was
	// created first so it must rank first.
	votes := fullBallot("perf-b", "user-1", 3)
	votes = append(votes, fullBallot("perf-a", "user-2", 3)...)

	scores := ComputeRankings(votes, []string{"perf-a", "perf-b"}, 4, ScoringConfig{})
	if len(scores) != 2 {
		t.Fatalf("expected 2 ranked performances, got %d", len(scores))
	}
	if !almostEqual(scores[0].BiasAdjustedScore, scores[1].BiasAdjustedScore) {
		t.Fatalf("expected a tie, got %v and %v", scores[0].BiasAdjustedScore, scores[1].BiasAdjustedScore)
	}
	if scores[0].PerformanceID != "perf-a" {
		t.Fatalf("expected perf-a to win the tie, got %s", scores[0].PerformanceID)
	}
}

func TestComputeRankingsUnknownPerformanceSortsAfterKnown(t *testing.T) {
	votes := fullBallot("perf-ghost", "user-1", 3)
	votes = append(votes, fullBallot("perf-a", "user-2", 3)...)

	scores := ComputeRankings(votes, []string{"perf-a"}, 4, ScoringConfig{})
	if len(scores) != 2 {
		t.Fatalf("expected 2 ranked performances, got %d", len(scores))
	}
	if scores[0].PerformanceID != "perf-a" || scores[1].PerformanceID != "perf-ghost" {
		t.Fatalf("expected known performance first on a tie, got %s then %s", scores[0].PerformanceID, scores[1].PerformanceID)
	}
}

func TestComputeRankingsFallsBackToQuestionFloor(t *testing.T) {
	votes := fullBallot("perf-a", "user-1", 5)

	scores := ComputeRankings(votes, []string{"perf-a"}, 0, ScoringConfig{})
	if len(scores) != 1 {
		t.Fatalf("expected 1 ranked performance, got %d", len(scores))
	}
	// Four answers over the floor of four questions is one voter.
	if !almostEqual(scores[0].NormalizedVoters, 1) {
		t.Fatalf("expected 1 normalized voter via the question floor, got %v", scores[0].NormalizedVoters)
	}
}
