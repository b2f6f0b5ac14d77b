// Package kafka publishes order events to a Kafka topic, keyed by order id so
// every event of one order lands on the same partition. Per order, events are
// appended in the order the publisher receives them.
package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/adapters/out/notifier"
	"dispatch/internal/core/ports"

	"github.com/IBM/sarama"
)

// Publisher implements ports.EventPublisher over a sarama.SyncProducer.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

// NewProducerConfig is the producer configuration used in production.
func NewProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	config.Producer.Retry.Backoff = 100 * time.Millisecond
	config.Producer.Return.Successes = true
	config.Producer.Timeout = 5 * time.Second
	config.Net.DialTimeout = 5 * time.Second
	return config
}

// Dial connects a SyncProducer to brokers.
func Dial(brokers []string, topic string, logger *slog.Logger) (*Publisher, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return NewPublisher(producer, topic, logger), nil
}

func NewPublisher(producer sarama.SyncProducer, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger.With("component", "KafkaPublisher"),
	}
}

// Publish sends the event synchronously. sarama has no per-message context, so
// ctx is only checked before sending.
func (p *Publisher) Publish(ctx context.Context, event ports.OrderEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := notifier.Encode(event)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.OrderID.String()),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.EventType)},
			{Key: []byte("content_type"), Value: []byte(notifier.ContentType)},
		},
	})
	if err != nil {
		return fmt.Errorf("send order event to %s: %w", p.topic, err)
	}

	p.logger.DebugContext(ctx, "order event published",
		"order_id", event.OrderID.String(),
		"event_type", string(event.EventType),
		"partition", partition,
		"offset", offset,
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}
