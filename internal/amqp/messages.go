package amqp

import (
	"errors"
	"time"

	"github.com/goccy/go-json"
)

type EventType string

const (
	EventCreated EventType = "transaction.created"
	EventUpdated EventType = "transaction.updated"
	EventDeleted EventType = "transaction.deleted"
)

var ErrInvalidEvent = errors.New("invalid transaction event")

func (e EventType) Valid() bool {
	switch e {
	case EventCreated, EventUpdated, EventDeleted:
		return true
	}
	return false
}

// TransactionEvent tells consumers that a transaction changed. It carries
// only the id; consumers load the current record from the store.
type TransactionEvent struct {
	Event      EventType `json:"event"`
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewTransactionEvent(event EventType, id string) *TransactionEvent {
	return &TransactionEvent{
		Event:      event,
		ID:         id,
		OccurredAt: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionEventFromJSON decodes and validates a message body.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Event.Valid() || msg.ID == "" {
		return nil, ErrInvalidEvent
	}
	return &msg, nil
}
