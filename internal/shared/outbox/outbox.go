package outbox

import (
	"errors"
	"time"
)

// ErrMessageNotFound reports a mark-published call against an outbox id with
// no matching row, usually a relay retry after the row was already purged.
var ErrMessageNotFound = errors.New("outbox message not found")

// Message is an outbox row persisted inside the same transaction as the state
// change it announces. The worker relay reads pending rows and publishes them
// to the message bus.
type Message struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}
