package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"dispatch/internal/adapters/out/notifier/logging"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_Publish(t *testing.T) {
	var buf bytes.Buffer
	publisher := logging.NewPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))
	orderID := kernel.NewUUID()

	err := publisher.Publish(t.Context(), ports.OrderEvent{
		OrderID:    orderID,
		EventType:  ports.EventOrderClaimable,
		NewStatus:  order.ReadyForPickup,
		Recipients: []kernel.UUID{kernel.NewUUID()},
	})
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "LoggingPublisher", record["component"])
	assert.Equal(t, orderID.String(), record["order_id"])
	assert.Equal(t, "order_claimable", record["event_type"])
	assert.InDelta(t, 1, record["recipients"], 0)
}
