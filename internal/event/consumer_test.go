package event

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naranjargal/search-service/internal/domain"
	"github.com/naranjargal/search-service/internal/session"
	pkgkafka "github.com/naranjargal/search-service/pkg/kafka"
)

type stubSearcher struct {
	hits []domain.ProductHit
}

func (s *stubSearcher) Scoped(_ context.Context, _, _ string, _, _ []any) (*session.Result, error) {
	hits := make([]domain.ProductHit, len(s.hits))
	copy(hits, s.hits)
	return &session.Result{
		Facets: domain.EmptyFacets(),
		Groups: domain.GroupProducts(hits),
		Hits:   hits,
		Total:  len(hits),
	}, nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRegistry(t *testing.T, hits ...domain.ProductHit) *session.Registry {
	t.Helper()
	reg := session.NewRegistry(&stubSearcher{hits: hits}, newTestLogger(), session.Options{CommitOnFailure: true}, time.Minute)
	t.Cleanup(reg.Close)
	return reg
}

func TestTopicStockChanged_Name(t *testing.T) {
	assert.Equal(t, "marketplace.inventory.stock_changed", TopicStockChanged)
}

func TestHandle_StockChanged_AppliesToSessions(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t, domain.ProductHit{ProductID: "p1", DisplayName: "Shampoo", SalePrice: 2000, Stock: 10})

	sess := reg.GetOrCreate("sess-1")
	_, err := sess.Submit(ctx, domain.FieldSearch, "shamp", nil, nil)
	require.NoError(t, err)

	event, err := pkgkafka.NewEvent(TopicStockChanged, "p1", "product", "inventory-service",
		StockEventData{ProductID: "p1", Stock: 2})
	require.NoError(t, err)

	consumer := NewConsumer(reg, newTestLogger())
	require.NoError(t, consumer.Handle(ctx, event))

	snap := sess.Snapshot()
	require.Len(t, snap.Groups, 1)
	assert.Equal(t, int64(2), snap.Groups[0].Representative.Stock)
}

func TestHandle_StockChanged_UnknownProductIsDropped(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t, domain.ProductHit{ProductID: "p1", DisplayName: "Shampoo", SalePrice: 2000, Stock: 10})

	sess := reg.GetOrCreate("sess-1")
	_, err := sess.Submit(ctx, domain.FieldSearch, "shamp", nil, nil)
	require.NoError(t, err)

	event, err := pkgkafka.NewEvent(TopicStockChanged, "ghost", "product", "inventory-service",
		StockEventData{ProductID: "ghost", Stock: 99})
	require.NoError(t, err)

	consumer := NewConsumer(reg, newTestLogger())
	require.NoError(t, consumer.Handle(ctx, event))

	snap := sess.Snapshot()
	require.Len(t, snap.Groups, 1)
	assert.Equal(t, int64(10), snap.Groups[0].Representative.Stock)
}

func TestHandle_StockChanged_BadPayload(t *testing.T) {
	consumer := NewConsumer(newTestRegistry(t), newTestLogger())

	event := &pkgkafka.Event{
		EventID:   "evt-1",
		EventType: TopicStockChanged,
		Data:      json.RawMessage(`"not an object"`),
	}
	assert.Error(t, consumer.Handle(context.Background(), event))
}

func TestHandle_StockChanged_MissingProductID(t *testing.T) {
	consumer := NewConsumer(newTestRegistry(t), newTestLogger())

	event, err := pkgkafka.NewEvent(TopicStockChanged, "", "product", "inventory-service",
		StockEventData{Stock: 5})
	require.NoError(t, err)

	assert.Error(t, consumer.Handle(context.Background(), event))
}

func TestHandle_UnknownEventType_Ignored(t *testing.T) {
	consumer := NewConsumer(newTestRegistry(t), newTestLogger())

	event, err := pkgkafka.NewEvent("marketplace.order.created", "o1", "order", "order-service", nil)
	require.NoError(t, err)

	assert.NoError(t, consumer.Handle(context.Background(), event))
}
