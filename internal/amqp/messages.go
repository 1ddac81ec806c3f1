package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TrackerChangedMessage announces that one tracker collection changed.
// It carries no record data; consumers read the document themselves.
type TrackerChangedMessage struct {
	ID        string    `json:"id"`
	Tracker   string    `json:"tracker"`
	Operation string    `json:"operation"`
	RecordID  string    `json:"record_id,omitempty"`
	Version   uint64    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTrackerChangedMessage stamps a fresh message id and the current time.
func NewTrackerChangedMessage(tracker, operation, recordID string, version uint64) *TrackerChangedMessage {
	return &TrackerChangedMessage{
		ID:        uuid.NewString(),
		Tracker:   tracker,
		Operation: operation,
		RecordID:  recordID,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TrackerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TrackerChangedMessageFromJSON parses a message body.
func TrackerChangedMessageFromJSON(data []byte) (*TrackerChangedMessage, error) {
	var msg TrackerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
