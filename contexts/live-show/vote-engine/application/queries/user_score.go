package queries

import (
	"context"
	"strings"

	"ovation/contexts/live-show/vote-engine/domain/entities"
	"ovation/contexts/live-show/vote-engine/ports"
)

// UserScore is one voter's contribution to one performance, against the most
// they could have given.
type UserScore struct {
	PerformanceID     string
	UserID            string
	RatedPoints       int
	MaxPossiblePoints int
}

type UserScoreUseCase struct {
	Votes        ports.VoteLedger
	Performances ports.PerformanceDirectory
	Questions    ports.QuestionDirectory
	MaxRating    int
}

// Score sums the voter's rating answers and derives the ceiling from how many
// rating questions the voter's bucket is asked.
func (uc UserScoreUseCase) Score(
	ctx context.Context,
	performanceID string,
	userID string,
	role entities.Role,
) (UserScore, error) {
	performanceID = strings.TrimSpace(performanceID)
	userID = strings.TrimSpace(userID)

	performance, err := uc.Performances.GetPerformance(ctx, performanceID)
	if err != nil {
		return UserScore{}, err
	}

	votes, err := uc.Votes.ListUserPerformanceVotes(ctx, userID, performanceID)
	if err != nil {
		return UserScore{}, err
	}
	rated := 0
	for _, vote := range votes {
		if vote.IsRating() {
			rated += *vote.Rating
		}
	}

	questions, err := uc.Questions.ListEventQuestions(ctx, performance.EventID)
	if err != nil {
		return UserScore{}, err
	}
	bucket := role.TargetBucket()
	askable := 0
	for _, question := range questions {
		if question.IsRating() && question.VisibleTo(bucket) {
			askable++
		}
	}

	return UserScore{
		PerformanceID:     performanceID,
		UserID:            userID,
		RatedPoints:       rated,
		MaxPossiblePoints: askable * uc.maxRating(),
	}, nil
}

func (uc UserScoreUseCase) maxRating() int {
	if uc.MaxRating <= 0 {
		return 5
	}
	return uc.MaxRating
}
