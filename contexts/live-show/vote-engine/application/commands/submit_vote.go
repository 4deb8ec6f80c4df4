package commands

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	lifecycleentities "ovation/contexts/live-show/performance-lifecycle/domain/entities"
	registryentities "ovation/contexts/live-show/question-registry/domain/entities"
	application "ovation/contexts/live-show/vote-engine/application"
	"ovation/contexts/live-show/vote-engine/domain/entities"
	domainerrors "ovation/contexts/live-show/vote-engine/domain/errors"
	"ovation/contexts/live-show/vote-engine/ports"
	"ovation/internal/shared/events"
)

// SubmitVoteCommand is one ballot: every answer the voter gave for one
// performance, keyed by question id. Rating answers arrive as decimal
// strings; text answers as free text.
type SubmitVoteCommand struct {
	UserID        string
	Role          entities.Role
	PerformanceID string
	Answers       map[string]string
	Comment       string
}

// SubmitVoteResult reports what survived admission.
type SubmitVoteResult struct {
	Votes    []entities.Vote
	Accepted int
	Skipped  int
}

// VoteUseCase admits ballots against the live voting window. Admission is
// fail-fast across its checks but silently drops individual answers the
// voter was never supposed to give; a hand-edited form must not turn into an
// error oracle for the question catalog.
type VoteUseCase struct {
	Votes        ports.VoteLedger
	Performances ports.PerformanceDirectory
	Questions    ports.QuestionDirectory
	Outbox       ports.OutboxWriter
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	RatingMin    int
	RatingMax    int
	Logger       *slog.Logger
}

func (uc VoteUseCase) SubmitVote(ctx context.Context, cmd SubmitVoteCommand) (SubmitVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	userID := strings.TrimSpace(cmd.UserID)
	performanceID := strings.TrimSpace(cmd.PerformanceID)
	if userID == "" || performanceID == "" || len(cmd.Answers) == 0 {
		return SubmitVoteResult{}, domainerrors.ErrInvalidVoteInput
	}

	performance, err := uc.Performances.GetPerformance(ctx, performanceID)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	if performance.Status != lifecycleentities.PerformanceStatusLive {
		return SubmitVoteResult{}, domainerrors.ErrSessionClosed
	}

	now := uc.now()
	switch performance.VotingState(now) {
	case lifecycleentities.VotingStateOpen:
	case lifecycleentities.VotingStateNotStarted:
		return SubmitVoteResult{}, domainerrors.ErrVotingNotOpen
	case lifecycleentities.VotingStateExpired:
		return SubmitVoteResult{}, domainerrors.ErrVotingExpired
	case lifecycleentities.VotingStatePaused:
		return SubmitVoteResult{}, domainerrors.ErrVotingPaused
	default:
		return SubmitVoteResult{}, domainerrors.ErrSessionClosed
	}

	voted, err := uc.Votes.HasUserVoted(ctx, userID, performanceID)
	if err != nil {
		return SubmitVoteResult{}, err
	}
	if voted {
		return SubmitVoteResult{}, domainerrors.ErrAlreadyVoted
	}

	questions, err := uc.Questions.ListEventQuestions(ctx, performance.EventID)
	if err != nil {
		return SubmitVoteResult{}, err
	}

	bucket := cmd.Role.TargetBucket()
	comment := strings.TrimSpace(cmd.Comment)
	votes := make([]entities.Vote, 0, len(cmd.Answers))
	skipped := 0
	// Iterating the catalog instead of the answer map keeps row order
	// deterministic and drops unknown question ids for free.
	for _, question := range questions {
		answer, answered := cmd.Answers[question.QuestionID]
		if !answered {
			continue
		}
		if !question.VisibleTo(bucket) {
			skipped++
			continue
		}
		if cmd.Role == entities.RoleFan && !question.IsRating() {
			skipped++
			continue
		}

		voteID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return SubmitVoteResult{}, err
		}
		vote := entities.Vote{
			VoteID:        voteID,
			UserID:        userID,
			PerformanceID: performanceID,
			QuestionID:    question.QuestionID,
			Comment:       comment,
			CreatedAt:     now,
		}
		if question.IsRating() {
			rating, err := parseRating(answer, uc.ratingMin(), uc.ratingMax())
			if err != nil {
				return SubmitVoteResult{}, err
			}
			vote.Rating = &rating
		} else {
			// The text answer is the comment; a top-level comment rides
			// along behind a separator.
			vote.Comment = joinComment(strings.TrimSpace(answer), comment)
		}
		votes = append(votes, vote)
	}
	skipped += countUnknownAnswers(cmd.Answers, questions)

	if len(votes) == 0 {
		logger.Warn("ballot had no admissible answers",
			"event", "vote_submit_all_filtered",
			"module", "live-show/vote-engine",
			"layer", "application",
			"user_id", userID,
			"performance_id", performanceID,
			"skipped", skipped,
		)
		return SubmitVoteResult{Skipped: skipped}, nil
	}

	if err := uc.Votes.InsertVotes(ctx, votes); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyVoted) {
			return SubmitVoteResult{}, domainerrors.ErrAlreadyVoted
		}
		return SubmitVoteResult{}, err
	}

	if err := uc.publishVoteAccepted(ctx, performance, userID, len(votes), now); err != nil {
		return SubmitVoteResult{}, err
	}

	logger.Info("ballot accepted",
		"event", "vote_submit_accepted",
		"module", "live-show/vote-engine",
		"layer", "application",
		"user_id", userID,
		"performance_id", performanceID,
		"accepted", len(votes),
		"skipped", skipped,
	)
	return SubmitVoteResult{Votes: votes, Accepted: len(votes), Skipped: skipped}, nil
}

func (uc VoteUseCase) publishVoteAccepted(
	ctx context.Context,
	performance lifecycleentities.Performance,
	userID string,
	answerCount int,
	occurredAt time.Time,
) error {
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := events.New(
		eventID,
		"vote.accepted",
		"vote-engine",
		performance.PerformanceID,
		occurredAt,
		map[string]any{
			"performance_id": performance.PerformanceID,
			"event_id":       performance.EventID,
			"user_id":        userID,
			"answer_count":   answerCount,
		},
	)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func (uc VoteUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (uc VoteUseCase) ratingMin() int {
	if uc.RatingMin <= 0 {
		return 1
	}
	return uc.RatingMin
}

func (uc VoteUseCase) ratingMax() int {
	if uc.RatingMax <= 0 {
		return 5
	}
	return uc.RatingMax
}

func parseRating(answer string, min int, max int) (int, error) {
	rating, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return 0, domainerrors.ErrInvalidRating
	}
	if rating < min || rating > max {
		return 0, domainerrors.ErrInvalidRating
	}
	return rating, nil
}

func joinComment(answer string, comment string) string {
	if comment == "" {
		return answer
	}
	if answer == "" {
		return comment
	}
	return answer + "\n---\n" + comment
}

func countUnknownAnswers(answers map[string]string, questions []registryentities.Question) int {
	known := make(map[string]struct{}, len(questions))
	for _, question := range questions {
		known[question.QuestionID] = struct{}{}
	}
	unknown := 0
	for questionID := range answers {
		if _, ok := known[questionID]; !ok {
			unknown++
		}
	}
	return unknown
}
