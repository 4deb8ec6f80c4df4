package commands

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	lifecyclememory "ovation/contexts/live-show/performance-lifecycle/adapters/memory"
	lifecycleentities "ovation/contexts/live-show/performance-lifecycle/domain/entities"
	registrymemory "ovation/contexts/live-show/question-registry/adapters/memory"
	registryentities "ovation/contexts/live-show/question-registry/domain/entities"
	"ovation/contexts/live-show/vote-engine/adapters/memory"
	"ovation/contexts/live-show/vote-engine/domain/entities"
	domainerrors "ovation/contexts/live-show/vote-engine/domain/errors"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type voteFixture struct {
	votes        *memory.Store
	performances *lifecyclememory.Store
	questions    *registrymemory.Store
	clock        fixedClock
	uc           VoteUseCase
}

func newVoteFixture(t *testing.T) voteFixture {
	t.Helper()
	now := time.Date(2026, time.March, 14, 20, 0, 0, 0, time.UTC)
	windowStart := now.Add(-time.Minute)
	windowEnd := now.Add(2 * time.Minute)

	performances := lifecyclememory.NewStore()
	performances.SetPerformance(lifecycleentities.Performance{
		PerformanceID:   "perf-1",
		ArtistID:        "artist-1",
		EventID:         "event-1",
		Status:          lifecycleentities.PerformanceStatusLive,
		StartTime:       now.Add(-5 * time.Minute),
		VotingStartedAt: &windowStart,
		VotingEndsAt:    &windowEnd,
	})

	questions := registrymemory.NewStore()
	questions.SetQuestion(registryentities.Question{
		QuestionID: "q-stage", EventID: "event-1", Text: "Stage presence",
		Type: registryentities.QuestionTypeRating, Target: registryentities.QuestionTargetBoth, DisplayOrder: 0,
	})
	questions.SetQuestion(registryentities.Question{
		QuestionID: "q-vocals", EventID: "event-1", Text: "Vocals",
		Type: registryentities.QuestionTypeRating, Target: registryentities.QuestionTargetBoth, DisplayOrder: 1,
	})
	questions.SetQuestion(registryentities.Question{
		QuestionID: "q-technique", EventID: "event-1", Text: "Technique",
		Type: registryentities.QuestionTypeRating, Target: registryentities.QuestionTargetJudge, DisplayOrder: 2,
	})
	questions.SetQuestion(registryentities.Question{
		QuestionID: "q-feedback", EventID: "event-1", Text: "Feedback for the artist",
		Type: registryentities.QuestionTypeText, Target: registryentities.QuestionTargetBoth, DisplayOrder: 3,
	})

	votes := memory.NewStore()
	clock := fixedClock{now: now}
	return voteFixture{
		votes:        votes,
		performances: performances,
		questions:    questions,
		clock:        clock,
		uc: VoteUseCase{
			Votes:        votes,
			Performances: performances,
			Questions:    questions,
			Outbox:       votes,
			Clock:        clock,
			IDGen:        votes,
		},
	}
}

func TestSubmitVoteFanKeepsRatingAnswersOnly(t *testing.T) {
	fx := newVoteFixture(t)
	result, err := fx.uc.SubmitVote(context.Background(), SubmitVoteCommand{
		UserID:        "fan-1",
		Role:          entities.RoleFan,
		PerformanceID: "perf-1",
		Answers: map[string]string{
			"q-stage":     "5",
			"q-vocals":    "4",
			"q-technique": "3",
			"q-feedback":  "loved the encore",
		},
		Comment: "great night",
	})
	if err != nil {
		t.Fatalf("submit fan ballot: %v", err)
	}
	if result.Accepted != 2 {
		t.Fatalf("expected 2 accepted answers, got %d", result.Accepted)
	}
	// The judge-only question is invisible to fans and the text question is
	// judge material; both count as skipped.
	if result.Skipped != 2 {
		t.Fatalf("expected 2 skipped answers, got %d", result.Skipped)
	}
	for _, vote := range result.Votes {
		if vote.Rating == nil {
			t.Fatalf("expected only rating rows for a fan, got text row for %s", vote.QuestionID)
		}
		if vote.Comment != "great night" {
			t.Fatalf("expected top-level comment on rating rows, got %q", vote.Comment)
		}
	}
	if fx.votes.VoteCount() != 2 {
		t.Fatalf("expected 2 stored rows, got %d", fx.votes.VoteCount())
	}
	types := fx.votes.PendingOutboxTypes()
	if len(types) != 1 || types[0] != "vote.accepted" {
		t.Fatalf("expected one vote.accepted envelope, got %v", types)
	}
}

func TestSubmitVoteJudgeJoinsTextAnswerWithComment(t *testing.T) {
	fx := newVoteFixture(t)
	result, err := fx.uc.SubmitVote(context.Background(), SubmitVoteCommand{
		UserID:        "judge-1",
		Role:          entities.RoleJudge,
		PerformanceID: "perf-1",
		Answers: map[string]string{
			"q-technique": "4",
			"q-feedback":  "work on transitions",
		},
		Comment: "strong set overall",
	})
	if err != nil {
		t.Fatalf("submit judge ballot: %v", err)
	}
	if result.Accepted != 2 || result.Skipped != 0 {
		t.Fatalf("expected 2 accepted and 0 skipped, got %d and %d", result.Accepted, result.Skipped)
	}

	var textRow, ratingRow *entities.Vote
	for i := range result.Votes {
		if result.Votes[i].QuestionID == "q-feedback" {
			textRow = &result.Votes[i]
		}
		if result.Votes[i].QuestionID == "q-technique" {
			ratingRow = &result.Votes[i]
		}
	}
	if textRow == nil || ratingRow == nil {
		t.Fatalf("expected rows for both questions, got %v", result.Votes)
	}
	if textRow.Rating != nil {
		t.Fatalf("expected nil rating on text row")
	}
	if textRow.Comment != "work on transitions\n---\nstrong set overall" {
		t.Fatalf("unexpected joined text answer: %q", textRow.Comment)
	}
	if ratingRow.Rating == nil || *ratingRow.Rating != 4 {
		t.Fatalf("expected rating 4, got %v", ratingRow.Rating)
	}
	if ratingRow.Comment != "strong set overall" {
		t.Fatalf("expected top-level comment on rating row, got %q", ratingRow.Comment)
	}
}

func TestSubmitVoteRejectsBadRatings(t *testing.T) {
	fx := newVoteFixture(t)
	for _, answer := range []string{"banana", "0", "6", ""} {
		_, err := fx.uc.SubmitVote(context.Background(), SubmitVoteCommand{
			UserID:        "fan-1",
			Role:          entities.RoleFan,
			PerformanceID: "perf-1",
			Answers:       map[string]string{"q-stage": answer},
		})
		if !errors.Is(err, domainerrors.ErrInvalidRating) {
			t.Fatalf("expected ErrInvalidRating for answer %q, got %v", answer, err)
		}
	}
	if fx.votes.VoteCount() != 0 {
		t.Fatalf("expected no rows after rejected ballots, got %d", fx.votes.VoteCount())
	}
}

func TestSubmitVoteWindowStates(t *testing.T) {
	fx := newVoteFixture(t)
	ballot := func() SubmitVoteCommand {
		return SubmitVoteCommand{
			UserID:        "fan-1",
			Role:          entities.RoleFan,
			PerformanceID: "perf-1",
			Answers:       map[string]string{"q-stage": "5"},
		}
	}
	reload := func() lifecycleentities.Performance {
		performance, err := fx.performances.GetPerformance(context.Background(), "perf-1")
		if err != nil {
			t.Fatalf("reload performance: %v", err)
		}
		return performance
	}

	performance := reload()
	performance.VotingStartedAt = nil
	performance.VotingEndsAt = nil
	fx.performances.SetPerformance(performance)
	if _, err := fx.uc.SubmitVote(context.Background(), ballot()); !errors.Is(err, domainerrors.ErrVotingNotOpen) {
		t.Fatalf("expected ErrVotingNotOpen before the window, got %v", err)
	}

	start := fx.clock.now.Add(-3 * time.Minute)
	end := fx.clock.now.Add(-time.Minute)
	performance = reload()
	performance.VotingStartedAt = &start
	performance.VotingEndsAt = &end
	fx.performances.SetPerformance(performance)
	if _, err := fx.uc.SubmitVote(context.Background(), ballot()); !errors.Is(err, domainerrors.ErrVotingExpired) {
		t.Fatalf("expected ErrVotingExpired after the deadline, got %v", err)
	}

	start = fx.clock.now.Add(-time.Minute)
	end = fx.clock.now.Add(time.Minute)
	performance = reload()
	performance.VotingStartedAt = &start
	performance.VotingEndsAt = &end
	performance.VotingPaused = true
	fx.performances.SetPerformance(performance)
	if _, err := fx.uc.SubmitVote(context.Background(), ballot()); !errors.Is(err, domainerrors.ErrVotingPaused) {
		t.Fatalf("expected ErrVotingPaused while paused, got %v", err)
	}

	performance = reload()
	performance.Status = lifecycleentities.PerformanceStatusClosed
	performance.VotingPaused = false
	fx.performances.SetPerformance(performance)
	if _, err := fx.uc.SubmitVote(context.Background(), ballot()); !errors.Is(err, domainerrors.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed for a closed performance, got %v", err)
	}
}

func TestSubmitVoteRejectsSecondBallot(t *testing.T) {
	fx := newVoteFixture(t)
	ballot := SubmitVoteCommand{
		UserID:        "fan-1",
		Role:          entities.RoleFan,
		PerformanceID: "perf-1",
		Answers:       map[string]string{"q-stage": "5"},
	}
	if _, err := fx.uc.SubmitVote(context.Background(), ballot); err != nil {
		t.Fatalf("first ballot: %v", err)
	}
	if _, err := fx.uc.SubmitVote(context.Background(), ballot); !errors.Is(err, domainerrors.ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted on the second ballot, got %v", err)
	}
	if fx.votes.VoteCount() != 1 {
		t.Fatalf("expected 1 stored row, got %d", fx.votes.VoteCount())
	}
}

func TestSubmitVoteConcurrentBallotsAdmitOne(t *testing.T) {
	fx := newVoteFixture(t)
	ballot := SubmitVoteCommand{
		UserID:        "fan-1",
		Role:          entities.RoleFan,
		PerformanceID: "perf-1",
		Answers:       map[string]string{"q-stage": "5", "q-vocals": "4"},
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	duplicates := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.uc.SubmitVote(context.Background(), ballot)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, domainerrors.ErrAlreadyVoted):
				duplicates++
			default:
				t.Errorf("unexpected error from concurrent ballot: %v", err)
			}
		}()
	}
	wg.Wait()

	if accepted != 1 {
		t.Fatalf("expected exactly one admitted ballot, got %d", accepted)
	}
	if duplicates != 7 {
		t.Fatalf("expected 7 duplicate rejections, got %d", duplicates)
	}
	if fx.votes.VoteCount() != 2 {
		t.Fatalf("expected the single admitted ballot's 2 rows, got %d", fx.votes.VoteCount())
	}
}

func TestSubmitVoteAllAnswersFiltered(t *testing.T) {
	fx := newVoteFixture(t)
	result, err := fx.uc.SubmitVote(context.Background(), SubmitVoteCommand{
		UserID:        "fan-1",
		Role:          entities.RoleFan,
		PerformanceID: "perf-1",
		Answers: map[string]string{
			"q-feedback": "text from a fan",
			"q-unknown":  "5",
		},
	})
	if err != nil {
		t.Fatalf("expected filtered ballot to succeed quietly, got %v", err)
	}
	if result.Accepted != 0 || result.Skipped != 2 {
		t.Fatalf("expected 0 accepted and 2 skipped, got %d and %d", result.Accepted, result.Skipped)
	}
	if fx.votes.VoteCount() != 0 {
		t.Fatalf("expected no rows, got %d", fx.votes.VoteCount())
	}
	if types := fx.votes.PendingOutboxTypes(); len(types) != 0 {
		t.Fatalf("expected no outbox envelope for an empty ballot, got %v", types)
	}
}

func TestSubmitVoteValidatesInput(t *testing.T) {
	fx := newVoteFixture(t)
	cases := []SubmitVoteCommand{
		{UserID: "", Role: entities.RoleFan, PerformanceID: "perf-1", Answers: map[string]string{"q-stage": "5"}},
		{UserID: "fan-1", Role: entities.RoleFan, PerformanceID: "  ", Answers: map[string]string{"q-stage": "5"}},
		{UserID: "fan-1", Role: entities.RoleFan, PerformanceID: "perf-1"},
	}
	for _, cmd := range cases {
		if _, err := fx.uc.SubmitVote(context.Background(), cmd); !errors.Is(err, domainerrors.ErrInvalidVoteInput) {
			t.Fatalf("expected ErrInvalidVoteInput for %+v, got %v", cmd, err)
		}
	}
}
