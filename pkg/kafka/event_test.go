package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockPayload struct {
	ProductID string `json:"productId"`
	Stock     int64  `json:"stock"`
}

func TestNewEvent_PopulatesEnvelope(t *testing.T) {
	event, err := NewEvent("marketplace.inventory.stock_changed", "prod-1", "product", "inventory-service",
		stockPayload{ProductID: "prod-1", Stock: 4})
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "marketplace.inventory.stock_changed", event.EventType)
	assert.Equal(t, "prod-1", event.AggregateID)
	assert.Equal(t, "product", event.AggregateType)
	assert.Equal(t, "inventory-service", event.Source)
	assert.False(t, event.Timestamp.IsZero())
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	event, err := NewEvent("marketplace.inventory.stock_changed", "prod-2", "product", "inventory-service",
		stockPayload{ProductID: "prod-2", Stock: 0})
	require.NoError(t, err)

	raw, err := event.Marshal()
	require.NoError(t, err)

	decoded, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, decoded.EventID)

	var payload stockPayload
	require.NoError(t, decoded.UnmarshalData(&payload))
	assert.Equal(t, "prod-2", payload.ProductID)
	assert.Equal(t, int64(0), payload.Stock)
}

func TestUnmarshalEvent_RejectsGarbage(t *testing.T) {
	_, err := UnmarshalEvent([]byte("{not json"))
	assert.Error(t, err)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "marketplace.inventory.stock_changed", Topic("inventory", "stock_changed"))
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	err := PingBrokers(context.Background(), nil)
	assert.Error(t, err)
}
