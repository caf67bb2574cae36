package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naranjargal/search-service/internal/domain"
	"github.com/naranjargal/search-service/internal/engine/memory"
	"github.com/naranjargal/search-service/internal/query"
	"github.com/naranjargal/search-service/internal/translit"
	apperrors "github.com/naranjargal/search-service/pkg/errors"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(eng *memory.Engine) *SearchService {
	return NewSearchService(eng, translit.NewRU(), query.DefaultBoosts(), newTestLogger())
}

func catalogHits() []domain.ProductHit {
	return []domain.ProductHit{
		{ProductID: "p1", GroupID: "g1", DisplayName: "Shampoo Classic", Brand: "Nivea", SalePrice: 4500, Stock: 12, StoreID: "s1"},
		{ProductID: "p2", GroupID: "g1", DisplayName: "Shampoo Classic XL", Brand: "Nivea", SalePrice: 6900, Stock: 3, StoreID: "s1"},
		{ProductID: "p3", GroupID: "g2", DisplayName: "Soap Bar", Brand: "Dove", SalePrice: 1900, Stock: 40, StoreID: "s2"},
	}
}

func TestScoped_RejectsUnknownField(t *testing.T) {
	svc := newTestService(memory.New())

	_, err := svc.Scoped(context.Background(), "price", "shamp", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestScoped_RejectsBlankTerm(t *testing.T) {
	svc := newTestService(memory.New())

	_, err := svc.Scoped(context.Background(), domain.FieldSearch, "   ", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestScoped_GroupsVariantsAndParsesFacets(t *testing.T) {
	eng := memory.New()
	eng.Add(catalogHits()...)
	svc := newTestService(eng)

	result, err := svc.Scoped(context.Background(), domain.FieldSearch, "shamp", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	require.Len(t, result.Groups, 1)
	assert.Equal(t, "p1", result.Groups[0].Representative.ProductID)
	assert.Len(t, result.Groups[0].Siblings, 1)
	assert.Contains(t, result.Facets.Brands, "Nivea")
}

func TestScoped_ExcludesOutOfStock(t *testing.T) {
	eng := memory.New()
	eng.Add(
		domain.ProductHit{ProductID: "in", DisplayName: "Shampoo A", Brand: "X", SalePrice: 2000, Stock: 1},
		domain.ProductHit{ProductID: "out", DisplayName: "Shampoo B", Brand: "X", SalePrice: 2000, Stock: 0},
	)
	svc := newTestService(eng)

	result, err := svc.Scoped(context.Background(), domain.FieldSearch, "shamp", nil, nil)
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "in", result.Hits[0].ProductID)
}

func TestScoped_MatchesTransliteratedCounterpart(t *testing.T) {
	eng := memory.New()
	eng.Add(domain.ProductHit{ProductID: "p1", DisplayName: "Шампунь классика", Brand: "Чистая Линия", SalePrice: 3200, Stock: 7})
	svc := newTestService(eng)

	// Latin input reaches Cyrillic documents through its derived form.
	result, err := svc.Scoped(context.Background(), domain.FieldSearch, "shampun", nil, nil)
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "p1", result.Hits[0].ProductID)
}

func TestScoped_EngineFailurePropagates(t *testing.T) {
	eng := memory.New()
	eng.FailWith(errors.New("cluster unreachable"))
	svc := newTestService(eng)

	_, err := svc.Scoped(context.Background(), domain.FieldSearch, "shamp", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cluster unreachable")
}

func TestPreview_ShortTermSkipsBackend(t *testing.T) {
	eng := memory.New()
	eng.FailWith(errors.New("must not be called"))
	svc := newTestService(eng)

	result, err := svc.Preview(context.Background(), " a ")
	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestPreview_ReturnsHitsAndSuggestions(t *testing.T) {
	eng := memory.New()
	eng.Add(catalogHits()...)
	svc := newTestService(eng)

	result, err := svc.Preview(context.Background(), "shamp")
	require.NoError(t, err)

	require.Len(t, result.Hits, 2)
	assert.Contains(t, result.Suggestions.Brands, "Nivea")
	assert.Contains(t, result.Suggestions.DisplayNames, "Shampoo Classic")
}

func TestPreview_NeverReturnsNilHits(t *testing.T) {
	svc := newTestService(memory.New())

	result, err := svc.Preview(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.NotNil(t, result.Hits)
}
