package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"ovation/contexts/live-show/vote-engine/domain/entities"
	domainerrors "ovation/contexts/live-show/vote-engine/domain/errors"
	"ovation/internal/shared/events"
	"ovation/internal/shared/outbox"

	"github.com/google/uuid"
)

type voteKey struct {
	userID        string
	performanceID string
	questionID    string
}

// Store is the in-memory vote ledger used by tests and local wiring. It
// enforces the same (user, performance, question) uniqueness the postgres
// index does, including under concurrent inserts.
type Store struct {
	mu        sync.Mutex
	votes     map[string]entities.Vote
	index     map[voteKey]string
	pending   []outbox.Message
	published map[string]time.Time
}

func NewStore() *Store {
	return &Store{
		votes:     make(map[string]entities.Vote),
		index:     make(map[voteKey]string),
		published: make(map[string]time.Time),
	}
}

func (s *Store) InsertVotes(_ context.Context, votes []entities.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, vote := range votes {
		key := voteKey{vote.UserID, vote.PerformanceID, vote.QuestionID}
		if _, taken := s.index[key]; taken {
			return domainerrors.ErrAlreadyVoted
		}
	}
	for _, vote := range votes {
		key := voteKey{vote.UserID, vote.PerformanceID, vote.QuestionID}
		s.votes[vote.VoteID] = vote
		s.index[key] = vote.VoteID
	}
	return nil
}

func (s *Store) HasUserVoted(_ context.Context, userID string, performanceID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.index {
		if key.userID == userID && key.performanceID == performanceID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListPerformanceVotes(_ context.Context, performanceID string) ([]entities.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(vote entities.Vote) bool {
		return vote.PerformanceID == performanceID
	}), nil
}

func (s *Store) ListVotesByPerformances(_ context.Context, performanceIDs []string) ([]entities.Vote, error) {
	wanted := make(map[string]struct{}, len(performanceIDs))
	for _, performanceID := range performanceIDs {
		wanted[performanceID] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(vote entities.Vote) bool {
		_, ok := wanted[vote.PerformanceID]
		return ok
	}), nil
}

func (s *Store) ListUserPerformanceVotes(
	_ context.Context,
	userID string,
	performanceID string,
) ([]entities.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collect(func(vote entities.Vote) bool {
		return vote.UserID == userID && vote.PerformanceID == performanceID
	}), nil
}

func (s *Store) PurgeVotesByPerformance(_ context.Context, performanceID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purge(func(vote entities.Vote) bool {
		return vote.PerformanceID == performanceID
	}), nil
}

func (s *Store) PurgeVotesByQuestion(_ context.Context, questionID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purge(func(vote entities.Vote) bool {
		return vote.QuestionID == questionID
	}), nil
}

func (s *Store) collect(match func(entities.Vote) bool) []entities.Vote {
	items := make([]entities.Vote, 0)
	for _, vote := range s.votes {
		if match(vote) {
			items = append(items, vote)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].VoteID < items[j].VoteID
	})
	return items
}

func (s *Store) purge(match func(entities.Vote) bool) int64 {
	removed := int64(0)
	for voteID, vote := range s.votes {
		if !match(vote) {
			continue
		}
		delete(s.votes, voteID)
		delete(s.index, voteKey{vote.UserID, vote.PerformanceID, vote.QuestionID})
		removed++
	}
	return removed
}

func (s *Store) AppendOutbox(_ context.Context, envelope events.Envelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, outbox.Message{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		CreatedAt:    envelope.OccurredAt,
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]outbox.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]outbox.Message, 0, len(s.pending))
	for _, message := range s.pending {
		if _, done := s.published[message.OutboxID]; done {
			continue
		}
		items = append(items, message)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, message := range s.pending {
		if message.OutboxID == outboxID {
			s.published[outboxID] = publishedAt
			return nil
		}
	}
	return outbox.ErrMessageNotFound
}

// PendingOutboxTypes lists unpublished event types in append order.
func (s *Store) PendingOutboxTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	types := make([]string, 0, len(s.pending))
	for _, message := range s.pending {
		if _, done := s.published[message.OutboxID]; done {
			continue
		}
		types = append(types, message.EventType)
	}
	return types
}

// VoteCount reports how many rows the ledger holds.
func (s *Store) VoteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.votes)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
