// Package event consumes inventory domain events and fans live stock
// changes out to every active search session.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/naranjargal/search-service/internal/domain"
	"github.com/naranjargal/search-service/internal/session"
	pkgkafka "github.com/naranjargal/search-service/pkg/kafka"
)

// TopicStockChanged carries per-product stock level changes from the
// inventory service.
var TopicStockChanged = pkgkafka.Topic("inventory", "stock_changed")

// StockEventData is the payload of a stock_changed event.
type StockEventData struct {
	ProductID string `json:"productId"`
	Stock     int64  `json:"stock"`
}

// Consumer routes inventory events into the session registry.
type Consumer struct {
	registry *session.Registry
	logger   *slog.Logger
}

// NewConsumer creates a new event consumer for the search service.
func NewConsumer(registry *session.Registry, logger *slog.Logger) *Consumer {
	return &Consumer{
		registry: registry,
		logger:   logger,
	}
}

// Handle processes a Kafka event based on its type.
func (c *Consumer) Handle(ctx context.Context, event *pkgkafka.Event) error {
	switch event.EventType {
	case TopicStockChanged:
		return c.handleStockChanged(ctx, event)
	default:
		c.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}

// handleStockChanged overlays the new stock level onto every session that
// currently displays the product. Sessions without it drop the delta.
func (c *Consumer) handleStockChanged(ctx context.Context, event *pkgkafka.Event) error {
	var data StockEventData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal stock_changed data: %w", err)
	}
	if data.ProductID == "" {
		return fmt.Errorf("stock_changed event %s has no product id", event.EventID)
	}

	applied := c.registry.Broadcast(domain.StockDelta{
		ProductID: data.ProductID,
		Stock:     data.Stock,
	})

	c.logger.DebugContext(ctx, "stock delta broadcast",
		slog.String("product_id", data.ProductID),
		slog.Int64("stock", data.Stock),
		slog.Int("sessions_applied", applied),
	)

	return nil
}
