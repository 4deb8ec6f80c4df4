package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"ovation/contexts/live-show/question-registry/domain/entities"
	domainerrors "ovation/contexts/live-show/question-registry/domain/errors"
	"ovation/internal/shared/events"
	"ovation/internal/shared/outbox"

	"github.com/google/uuid"
)

// Store is the in-memory registry backend used by tests and local wiring.
type Store struct {
	mu        sync.RWMutex
	questions map[string]entities.Question
	pending   []outbox.Message
	published map[string]time.Time
}

func NewStore() *Store {
	return &Store{
		questions: make(map[string]entities.Question),
		published: make(map[string]time.Time),
	}
}

func (s *Store) SetQuestion(question entities.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[question.QuestionID] = question
}

func (s *Store) UpsertQuestion(_ context.Context, question entities.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[question.QuestionID] = question
	return nil
}

func (s *Store) GetQuestion(_ context.Context, questionID string) (entities.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	question, ok := s.questions[questionID]
	if !ok {
		return entities.Question{}, domainerrors.ErrQuestionNotFound
	}
	return question, nil
}

func (s *Store) DeleteQuestion(_ context.Context, questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[questionID]; !ok {
		return domainerrors.ErrQuestionNotFound
	}
	delete(s.questions, questionID)
	return nil
}

func (s *Store) ListEventQuestions(_ context.Context, eventID string) ([]entities.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Question, 0)
	for _, question := range s.questions {
		if question.EventID == eventID {
			items = append(items, question)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DisplayOrder < items[j].DisplayOrder
	})
	return items, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope events.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := envelopePayload(envelope)
	if err != nil {
		return err
	}
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
	s.mu.RLock()
	defer s.mu.RUnlock()
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
	s.mu.RLock()
	defer s.mu.RUnlock()
	types := make([]string, 0, len(s.pending))
	for _, message := range s.pending {
		if _, done := s.published[message.OutboxID]; done {
			continue
		}
		types = append(types, message.EventType)
	}
	return types
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func envelopePayload(envelope events.Envelope) ([]byte, error) {
	return json.Marshal(envelope)
}
