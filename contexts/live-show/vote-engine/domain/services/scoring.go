package services

import (
	"sort"

	"ovation/contexts/live-show/vote-engine/domain/entities"
)

// ScoringConfig carries the shrinkage tunables. Zero values fall back to the
// show's historical constants.
type ScoringConfig struct {
	// BiasWeight is m in (raw + m*mu) / (voters + m). Larger values pull
	// sparse performances harder toward the event mean.
	BiasWeight float64
	// QuestionFloor replaces the rating-question count when an event has
	// none, so voter normalization never divides by zero.
	QuestionFloor int
	// MaxRating is the top of the rating scale.
	MaxRating int
}

func (c ScoringConfig) normalized() ScoringConfig {
	if c.BiasWeight <= 0 {
		c.BiasWeight = 10
	}
	if c.QuestionFloor <= 0 {
		c.QuestionFloor = 4
	}
	if c.MaxRating <= 0 {
		c.MaxRating = 5
	}
	return c
}

// PerformanceScore is one ranked row. NormalizedVoters is the rating answer
// count divided by the event's rating-question count, so a voter who answered
// every rating question counts as exactly one.
type PerformanceScore struct {
	PerformanceID     string
	RawRatingSum      float64
	NormalizedVoters  float64
	BiasAdjustedScore float64
	ShareOfTotal      float64
}

// ComputeRankings scores every performance that received at least one rating
// answer. performanceOrder lists the event's performances in creation order
// and doubles as the tie-break: equal scores rank earlier performances first.
// With zero normalized voters overall there is no event mean, so the result
// is empty.
func ComputeRankings(
	votes []entities.Vote,
	performanceOrder []string,
	ratingQuestionCount int,
	cfg ScoringConfig,
) []PerformanceScore {
	cfg = cfg.normalized()
	questionCount := ratingQuestionCount
	if questionCount <= 0 {
		questionCount = cfg.QuestionFloor
	}

	type aggregate struct {
		rawSum  float64
		answers int
	}
	totals := make(map[string]*aggregate)
	seen := make([]string, 0)
	for _, vote := range votes {
		if !vote.IsRating() {
			continue
		}
		agg, ok := totals[vote.PerformanceID]
		if !ok {
			agg = &aggregate{}
			totals[vote.PerformanceID] = agg
			seen = append(seen, vote.PerformanceID)
		}
		agg.rawSum += float64(*vote.Rating)
		agg.answers++
	}
	if len(totals) == 0 {
		return nil
	}

	totalRaw := 0.0
	totalVoters := 0.0
	for _, agg := range totals {
		totalRaw += agg.rawSum
		totalVoters += float64(agg.answers) / float64(questionCount)
	}
	if totalVoters == 0 {
		return nil
	}
	mu := totalRaw / totalVoters

	orderIndex := make(map[string]int, len(performanceOrder))
	for index, performanceID := range performanceOrder {
		orderIndex[performanceID] = index
	}
	rank := func(performanceID string) int {
		if index, ok := orderIndex[performanceID]; ok {
			return index
		}
		// Votes for performances outside the known order sort last, in
		// first-seen order.
		return len(performanceOrder) + indexOf(seen, performanceID)
	}

	scores := make([]PerformanceScore, 0, len(totals))
	for _, performanceID := range seen {
		agg := totals[performanceID]
		voters := float64(agg.answers) / float64(questionCount)
		share := 0.0
		if totalRaw > 0 {
			share = agg.rawSum / totalRaw * 100
		}
		scores = append(scores, PerformanceScore{
			PerformanceID:     performanceID,
			RawRatingSum:      agg.rawSum,
			NormalizedVoters:  voters,
			BiasAdjustedScore: (agg.rawSum + cfg.BiasWeight*mu) / (voters + cfg.BiasWeight),
			ShareOfTotal:      share,
		})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].BiasAdjustedScore != scores[j].BiasAdjustedScore {
			return scores[i].BiasAdjustedScore > scores[j].BiasAdjustedScore
		}
		return rank(scores[i].PerformanceID) < rank(scores[j].PerformanceID)
	})
	return scores
}

func indexOf(items []string, target string) int {
	for index, item := range items {
		if item == target {
			return index
		}
	}
	return len(items)
}
