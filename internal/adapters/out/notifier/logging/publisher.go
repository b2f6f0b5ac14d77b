// Package logging is the event channel used when no broker is configured:
// every event is written to the structured log and nowhere else.
package logging

import (
	"context"
	"log/slog"

	"dispatch/internal/adapters/out/notifier"
	"dispatch/internal/core/ports"
)

type Publisher struct {
	logger *slog.Logger
}

func NewPublisher(logger *slog.Logger) *Publisher {
	return &Publisher{logger: logger.With("component", "LoggingPublisher")}
}

func (p *Publisher) Publish(ctx context.Context, event ports.OrderEvent) error {
	msg := notifier.NewMessage(event)
	p.logger.InfoContext(ctx, "order event",
		"order_id", msg.OrderID,
		"order_number", msg.OrderNumber,
		"event_type", msg.EventType,
		"new_status", msg.NewStatus,
		"recipients", len(msg.Recipients),
	)
	return nil
}
