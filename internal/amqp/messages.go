package amqp

import (
	"encoding/json"
	"time"
)

// LedgerEventMessage notifies downstream consumers that the ledger changed.
// It carries only the operation and identifiers; the worker reads the
// current state from storage when it reacts.
type LedgerEventMessage struct {
	Op        string    `json:"op"`
	ID        string    `json:"id,omitempty"`
	Count     int       `json:"count,omitempty"`
	Revision  uint64    `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerEventMessage creates an event message stamped with the current time.
func NewLedgerEventMessage(op, id string, count int, revision uint64) *LedgerEventMessage {
	return &LedgerEventMessage{
		Op:        op,
		ID:        id,
		Count:     count,
		Revision:  revision,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON creates a message from JSON bytes.
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
