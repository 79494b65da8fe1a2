package port

import (
	"context"
	"encoding/json"
)

// Event is one message published on the event bus.
type Event struct {
	Subject string          `json:"subject"`
	Payload json.RawMessage `json:"payload"`
}

// EventBus carries cross-process events for live notification delivery.
// Subscribe returns a receive channel together with an unsubscribe
// func; after unsubscribe the channel is closed and no further events
// arrive. Consumers must stop applying results once they unsubscribe.
type EventBus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(ctx context.Context, subject string) (<-chan Event, func(), error)
	Close() error
}
