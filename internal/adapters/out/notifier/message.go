// Package notifier defines the wire format shared by the event channel
// publishers. Each broker adapter lives in its own subpackage.
package notifier

import (
	"encoding/json"
	"time"

	"dispatch/internal/core/ports"
)

// ContentType of every encoded event.
const ContentType = "application/json"

// Message is the JSON document published for an order event.
type Message struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	EventType   string    `json:"event_type"`
	NewStatus   string    `json:"new_status"`
	Recipients  []string  `json:"recipients"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewMessage flattens an event into its wire form. Recipients is never null.
func NewMessage(event ports.OrderEvent) Message {
	recipients := make([]string, 0, len(event.Recipients))
	for _, id := range event.Recipients {
		recipients = append(recipients, id.String())
	}

	return Message{
		OrderID:     event.OrderID.String(),
		OrderNumber: event.OrderNumber,
		EventType:   string(event.EventType),
		NewStatus:   event.NewStatus.String(),
		Recipients:  recipients,
		OccurredAt:  event.OccurredAt.UTC(),
	}
}

// Encode returns the JSON body for event.
func Encode(event ports.OrderEvent) ([]byte, error) {
	return json.Marshal(NewMessage(event))
}
