package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/grocerydesk/catalog/pkg/messaging"
)

// StockChangedEvent is emitted after a product's quantity was adjusted.
// Delta is positive for restocks and negative for removals.
type StockChangedEvent struct {
	ProductID  uuid.UUID `json:"product_id"`
	Delta      int32     `json:"delta"`
	Quantity   int32     `json:"quantity"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e StockChangedEvent) Subject() string {
	return messaging.StockChangedSubject
}

func (e StockChangedEvent) Payload() ([]byte, error) {
	return json.Marshal(e)
}
