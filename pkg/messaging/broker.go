package messaging

import (
	"context"
	"time"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Publisher defines the interface for publishing messages
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

// Message is the envelope written to the broker channel.
type Message struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// Event types published after successful writes.
const (
	LocationCreated = "location.created"
	LocationUpdated = "location.updated"
	LocationDeleted = "location.deleted"
	TagCreated      = "tag.created"
	TagUpdated      = "tag.updated"
	TagDeleted      = "tag.deleted"
	FacilityCreated = "facility.created"
	FacilityUpdated = "facility.updated"
	FacilityDeleted = "facility.deleted"
	EmployeeCreated = "employee.created"
	EmployeeUpdated = "employee.updated"
	EmployeeDeleted = "employee.deleted"
)

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }
