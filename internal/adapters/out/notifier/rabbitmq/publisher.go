// Package rabbitmq publishes order events to a durable fanout exchange. Every
// bound queue (partner push gateway, store dashboard, analytics) receives a
// copy; routing by event type is left to consumers.
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"dispatch/internal/adapters/out/notifier"
	"dispatch/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrPublishNacked = errors.New("publish NACK from broker")

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Confirm(noWait bool) error
	NotifyPublish(confirm chan amqp.Confirmation) chan amqp.Confirmation
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher implements ports.EventPublisher with publisher confirms. Publishes
// are serialized so each confirmation matches its message.
type Publisher struct {
	ch       Channel
	conn     *amqp.Connection
	exchange string
	acks     <-chan amqp.Confirmation
	logger   *slog.Logger

	mu sync.Mutex
}

// Dial connects to url, opens a channel and declares the exchange.
func Dial(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	p, err := NewPublisher(ch, exchange, logger)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewPublisher declares the fanout exchange and enables confirms on ch.
func NewPublisher(ch Channel, exchange string, logger *slog.Logger) (*Publisher, error) {
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}

	return &Publisher{
		ch:       ch,
		exchange: exchange,
		acks:     ch.NotifyPublish(make(chan amqp.Confirmation, 1)),
		logger:   logger.With("component", "RabbitMQPublisher"),
	}, nil
}

// Publish sends the event and waits for the broker's confirmation or ctx.
func (p *Publisher) Publish(ctx context.Context, event ports.OrderEvent) error {
	body, err := notifier.Encode(event)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, p.exchange, "", false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  notifier.ContentType,
		MessageId:    event.OrderID.String(),
		Type:         string(event.EventType),
		Timestamp:    event.OccurredAt.UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish order event to %s: %w", p.exchange, err)
	}

	select {
	case conf := <-p.acks:
		if !conf.Ack {
			return fmt.Errorf("%w: delivery tag %d", ErrPublishNacked, conf.DeliveryTag)
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	p.logger.DebugContext(ctx, "order event published",
		"order_id", event.OrderID.String(), "event_type", string(event.EventType))
	return nil
}

func (p *Publisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		err = errors.Join(err, p.conn.Close())
	}
	return err
}
