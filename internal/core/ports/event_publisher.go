package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// EventType names an order event on the event channel.
type EventType string

const (
	// EventOrderClaimable announces an unassigned order partners may claim.
	EventOrderClaimable EventType = "order_claimable"
	// EventStatusChanged announces any committed status change.
	EventStatusChanged EventType = "status_changed"
)

// OrderEvent is the message published to the event channel. Receivers must be
// idempotent: the same claimable order may be announced several times.
type OrderEvent struct {
	OrderID     kernel.UUID
	OrderNumber string
	EventType   EventType
	NewStatus   order.Status
	Recipients  []kernel.UUID
	OccurredAt  time.Time
}

// EventPublisher delivers order events best effort. A failed publish never
// undoes the state change it reports.
type EventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}
