package memory

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"ovation/contexts/live-show/performance-lifecycle/domain/entities"
	domainerrors "ovation/contexts/live-show/performance-lifecycle/domain/errors"
	"ovation/internal/shared/events"
	"ovation/internal/shared/outbox"

	"github.com/google/uuid"
)

type outboxRecord struct {
	message   outbox.Message
	published bool
}

// Store is the in-memory lifecycle adapter used by tests and local wiring.
type Store struct {
	mu sync.RWMutex

	events       map[string]entities.Event
	artists      map[string]entities.Artist
	performances map[string]entities.Performance
	schedule     map[string][]entities.ScheduleSlot
	outbox       map[string]outboxRecord
}

func NewStore() *Store {
	return &Store{
		events:       make(map[string]entities.Event),
		artists:      make(map[string]entities.Artist),
		performances: make(map[string]entities.Performance),
		schedule:     make(map[string][]entities.ScheduleSlot),
		outbox:       make(map[string]outboxRecord),
	}
}

func (s *Store) SetEvent(event entities.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[strings.TrimSpace(event.EventID)] = event
}

func (s *Store) SetArtist(artist entities.Artist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artists[strings.TrimSpace(artist.ArtistID)] = artist
}

func (s *Store) SetPerformance(performance entities.Performance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.performances[strings.TrimSpace(performance.PerformanceID)] = performance
}

func (s *Store) GetActiveEvent(_ context.Context) (entities.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, event := range s.events {
		if event.Active {
			return event, nil
		}
	}
	return entities.Event{}, domainerrors.ErrNoActiveEvent
}

func (s *Store) GetEvent(_ context.Context, eventID string) (entities.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.events[strings.TrimSpace(eventID)]
	if !ok {
		return entities.Event{}, domainerrors.ErrEventNotFound
	}
	return event, nil
}

func (s *Store) GetArtist(_ context.Context, artistID string) (entities.Artist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	artist, ok := s.artists[strings.TrimSpace(artistID)]
	if !ok {
		return entities.Artist{}, domainerrors.ErrArtistNotFound
	}
	return artist, nil
}

func (s *Store) SetArtistStatus(
	_ context.Context,
	artistID string,
	status entities.ArtistStatus,
	updatedAt time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	artist, ok := s.artists[strings.TrimSpace(artistID)]
	if !ok {
		return domainerrors.ErrArtistNotFound
	}
	artist.Status = status
	artist.UpdatedAt = updatedAt.UTC()
	s.artists[strings.TrimSpace(artistID)] = artist
	return nil
}

func (s *Store) DemoteLiveArtists(
	_ context.Context,
	to entities.ArtistStatus,
	updatedAt time.Time,
) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	demoted := make([]string, 0)
	for key, artist := range s.artists {
		if artist.Status != entities.ArtistStatusLive {
			continue
		}
		artist.Status = to
		artist.UpdatedAt = updatedAt.UTC()
		s.artists[key] = artist
		demoted = append(demoted, artist.ArtistID)
	}
	sort.Strings(demoted)
	return demoted, nil
}

func (s *Store) ListLineup(_ context.Context) ([]entities.Artist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Artist, 0, len(s.artists))
	for _, artist := range s.artists {
		items = append(items, artist)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].LineupOrder < items[j].LineupOrder
	})
	return items, nil
}

func (s *Store) CreatePerformance(_ context.Context, performance entities.Performance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.performances[strings.TrimSpace(performance.PerformanceID)] = performance
	return nil
}

func (s *Store) GetPerformance(_ context.Context, performanceID string) (entities.Performance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	performance, ok := s.performances[strings.TrimSpace(performanceID)]
	if !ok {
		return entities.Performance{}, domainerrors.ErrPerformanceNotFound
	}
	return performance, nil
}

func (s *Store) GetLivePerformance(_ context.Context, eventID string) (entities.Performance, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, performance := range s.performances {
		if performance.EventID != strings.TrimSpace(eventID) {
			continue
		}
		if performance.Status == entities.PerformanceStatusLive {
			return performance, true, nil
		}
	}
	return entities.Performance{}, false, nil
}

func (s *Store) CloseLivePerformances(
	_ context.Context,
	eventID string,
	endedAt time.Time,
) ([]entities.Performance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	closed := make([]entities.Performance, 0)
	for key, performance := range s.performances {
		if performance.EventID != strings.TrimSpace(eventID) {
			continue
		}
		if performance.Status != entities.PerformanceStatusLive {
			continue
		}
		ended := endedAt.UTC()
		performance.Status = entities.PerformanceStatusClosed
		performance.EndTime = &ended
		performance.UpdatedAt = ended
		s.performances[key] = performance
		closed = append(closed, performance)
	}
	return closed, nil
}

func (s *Store) UpdatePerformance(_ context.Context, performance entities.Performance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(performance.PerformanceID)
	if _, ok := s.performances[key]; !ok {
		return domainerrors.ErrPerformanceNotFound
	}
	s.performances[key] = performance
	return nil
}

func (s *Store) DeletePerformance(_ context.Context, performanceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(performanceID)
	if _, ok := s.performances[key]; !ok {
		return domainerrors.ErrPerformanceNotFound
	}
	delete(s.performances, key)
	return nil
}

func (s *Store) ListEventPerformances(_ context.Context, eventID string) ([]entities.Performance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Performance, 0)
	for _, performance := range s.performances {
		if performance.EventID == strings.TrimSpace(eventID) {
			items = append(items, performance)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].StartTime.Before(items[j].StartTime)
	})
	return items, nil
}

func (s *Store) ReplaceSchedule(_ context.Context, eventID string, slots []entities.ScheduleSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedule[strings.TrimSpace(eventID)] = append([]entities.ScheduleSlot(nil), slots...)
	return nil
}

func (s *Store) ListSchedule(_ context.Context, eventID string) ([]entities.ScheduleSlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entities.ScheduleSlot(nil), s.schedule[strings.TrimSpace(eventID)]...), nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope events.Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := envelopePayload(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	s.outbox[outboxID] = outboxRecord{
		message: outbox.Message{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]outbox.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]outbox.Message, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return outbox.ErrMessageNotFound
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

// PendingOutboxTypes lists unpublished event types in creation order, for
// assertions in tests.
func (s *Store) PendingOutboxTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := make([]outbox.Message, 0, len(s.outbox))
	for _, row := range s.outbox {
		if !row.published {
			rows = append(rows, row.message)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})
	types := make([]string, 0, len(rows))
	for _, row := range rows {
		types = append(types, row.EventType)
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
