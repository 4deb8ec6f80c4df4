package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"ovation/contexts/live-show/vote-engine/adapters/memory"
	"ovation/internal/shared/events"
	"ovation/internal/shared/outbox"
)

type capturingPublisher struct {
	topics    []string
	envelopes []events.Envelope
	failAfter int
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, event events.Envelope) error {
	if p.failAfter > 0 && len(p.envelopes) >= p.failAfter {
		return errors.New("broker unavailable")
	}
	p.topics = append(p.topics, topic)
	p.envelopes = append(p.envelopes, event)
	return nil
}

func appendAcceptedEnvelope(t *testing.T, store *memory.Store, id string, occurredAt time.Time) {
	t.Helper()
	envelope, err := events.New(id, "vote.accepted", "vote-engine", "perf-1", occurredAt, map[string]any{
		"performance_id": "perf-1",
		"event_id":       "event-1",
		"user_id":        "fan-1",
		"answer_count":   1,
	})
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}
	if err := store.AppendOutbox(context.Background(), envelope); err != nil {
		t.Fatalf("append outbox: %v", err)
	}
}

func TestOutboxRelayPublishesAndMarksRows(t *testing.T) {
	store := memory.NewStore()
	appendAcceptedEnvelope(t, store, "env-1", time.Date(2026, time.March, 14, 20, 0, 0, 0, time.UTC))
	publisher := &capturingPublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, BatchSize: 10}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run: %v", err)
	}
	if len(publisher.envelopes) != 1 {
		t.Fatalf("expected 1 published envelope, got %d", len(publisher.envelopes))
	}
	if publisher.topics[0] != "vote.accepted" {
		t.Fatalf("expected vote.accepted topic, got %q", publisher.topics[0])
	}
	if publisher.envelopes[0].PartitionKey != "perf-1" {
		t.Fatalf("expected performance-keyed partition, got %q", publisher.envelopes[0].PartitionKey)
	}

	if pending := store.PendingOutboxTypes(); len(pending) != 0 {
		t.Fatalf("expected no pending rows after publish, got %v", pending)
	}
	// A second cycle has nothing to do and must not republish.
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second relay run: %v", err)
	}
	if len(publisher.envelopes) != 1 {
		t.Fatalf("expected no duplicate publish, got %d envelopes", len(publisher.envelopes))
	}
}

func TestMarkOutboxPublishedUnknownRow(t *testing.T) {
	store := memory.NewStore()
	err := store.MarkOutboxPublished(context.Background(), "env-missing", time.Now().UTC())
	if !errors.Is(err, outbox.ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound for unknown outbox id, got %v", err)
	}
}

func TestOutboxRelayStopsOnPublishFailure(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2026, time.March, 14, 20, 0, 0, 0, time.UTC)
	appendAcceptedEnvelope(t, store, "env-1", base)
	appendAcceptedEnvelope(t, store, "env-2", base.Add(time.Second))

	publisher := &capturingPublisher{failAfter: 1}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, BatchSize: 10}
	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected an error when the broker fails")
	}
	// The failed row stays pending for the next cycle.
	if pending := store.PendingOutboxTypes(); len(pending) != 1 {
		t.Fatalf("expected 1 row still pending, got %v", pending)
	}
}
