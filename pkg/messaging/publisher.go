package messaging

import (
	"context"
)

// StockChangedSubject is the subject stock adjustments are published on.
const StockChangedSubject = "catalog.stock.changed"

type Event interface {
	Subject() string
	Payload() ([]byte, error)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher discards every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error {
	return nil
}
