package events

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical event shape carried through each service's outbox
// and onto the bus. The live displays consume these to re-render without
// polling, so every state mutation publishes one.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	SourceService string          `json:"source_service"`
	OccurredAt    time.Time       `json:"occurred_at_utc"`
	PartitionKey  string          `json:"partition_key"`
	SchemaVersion int             `json:"schema_version"`
	Data          json.RawMessage `json:"data"`
}

// New marshals the payload and stamps the envelope. Events are partitioned by
// performance so performance-scoped consumers see stable ordering.
func New(
	eventID string,
	eventType string,
	sourceService string,
	partitionKey string,
	occurredAt time.Time,
	data map[string]any,
) (Envelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       eventID,
		EventType:     eventType,
		SourceService: sourceService,
		OccurredAt:    occurredAt.UTC(),
		PartitionKey:  partitionKey,
		SchemaVersion: 1,
		Data:          payload,
	}, nil
}
