package kafka_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/adapters/out/notifier/kafka"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const topic = "order-events"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func event() ports.OrderEvent {
	return ports.OrderEvent{
		OrderID:     kernel.NewUUID(),
		OrderNumber: "QC-20261019-5B1C9E07",
		EventType:   ports.EventStatusChanged,
		NewStatus:   order.OutForDelivery,
		OccurredAt:  time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}
}

func TestPublisher_Publish(t *testing.T) {
	t.Run("should key the message by order id", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, kafka.NewProducerConfig())
		e := event()

		producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
			assert.Equal(t, topic, msg.Topic)

			key, err := msg.Key.Encode()
			require.NoError(t, err)
			assert.Equal(t, e.OrderID.String(), string(key))

			value, err := msg.Value.Encode()
			require.NoError(t, err)
			assert.Contains(t, string(value), `"new_status":"out_for_delivery"`)
			return nil
		})

		publisher := kafka.NewPublisher(producer, topic, discardLogger())
		require.NoError(t, publisher.Publish(t.Context(), e))
		require.NoError(t, publisher.Close())
	})

	t.Run("should return broker failures", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, kafka.NewProducerConfig())
		producer.ExpectSendMessageAndFail(sarama.ErrNotLeaderForPartition)

		publisher := kafka.NewPublisher(producer, topic, discardLogger())
		err := publisher.Publish(t.Context(), event())

		require.ErrorIs(t, err, sarama.ErrNotLeaderForPartition)
		require.NoError(t, publisher.Close())
	})

	t.Run("should not send once the context is done", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, kafka.NewProducerConfig())
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		publisher := kafka.NewPublisher(producer, topic, discardLogger())
		err := publisher.Publish(ctx, event())

		assert.True(t, errors.Is(err, context.Canceled))
		require.NoError(t, publisher.Close())
	})
}
