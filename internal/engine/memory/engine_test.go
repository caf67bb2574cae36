package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naranjargal/search-service/internal/domain"
	"github.com/naranjargal/search-service/internal/query"
)

func scopedBody(term string) map[string]any {
	b := query.NewBuilder(query.DefaultBoosts())
	return b.Scoped(domain.FieldSearch, query.TermForms{Original: term}, nil, nil)
}

func TestScoped_PrefixMatchAndBaseFilters(t *testing.T) {
	eng := New()
	eng.Add(
		domain.ProductHit{ProductID: "1", DisplayName: "Nike Air", Brand: "Nike", SalePrice: 100, Stock: 3},
		domain.ProductHit{ProductID: "2", DisplayName: "Nike Free", Brand: "Nike", SalePrice: 0, Stock: 3},
		domain.ProductHit{ProductID: "3", DisplayName: "Nike Zoom", Brand: "Nike", SalePrice: 100, Stock: 0},
		domain.ProductHit{ProductID: "4", DisplayName: "Puma Rider", Brand: "Puma", SalePrice: 100, Stock: 2},
	)

	res, err := eng.Scoped(context.Background(), scopedBody("nike"))
	require.NoError(t, err)

	// Zero-priced and out-of-stock documents never match.
	require.Len(t, res.Hits, 1)
	assert.Equal(t, "1", res.Hits[0].ProductID)
}

func TestScoped_SingleFieldMode(t *testing.T) {
	eng := New()
	eng.Add(
		domain.ProductHit{ProductID: "1", DisplayName: "Apple Watch", Brand: "Apple", SalePrice: 100, Stock: 1},
		domain.ProductHit{ProductID: "2", DisplayName: "Apple Pie Mold", Brand: "KitchenCo", SalePrice: 100, Stock: 1},
	)

	b := query.NewBuilder(query.DefaultBoosts())
	body := b.Scoped(domain.FieldBrand, query.TermForms{Original: "apple"}, nil, nil)

	res, err := eng.Scoped(context.Background(), body)
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, "1", res.Hits[0].ProductID)
}

func TestScoped_SynthesizedAggregationsParse(t *testing.T) {
	eng := New()
	eng.Add(
		domain.ProductHit{
			ProductID: "1", DisplayName: "Nike Air", Brand: "Nike", SalePrice: 150, Stock: 3,
			StoreID: "store-1", MainOptions: []domain.OptionValue{{Option: "color", Value: "red"}},
		},
		domain.ProductHit{
			ProductID: "2", DisplayName: "Nike Free", Brand: "Nike", SalePrice: 90, Stock: 1,
			StoreID: "store-2", MainOptions: []domain.OptionValue{{Option: "color", Value: "black"}},
		},
	)

	res, err := eng.Scoped(context.Background(), scopedBody("nike"))
	require.NoError(t, err)

	facets := query.ParseFacets(res.Aggregations)
	assert.Equal(t, []string{"Nike"}, facets.Brands)
	assert.Equal(t, 90.0, facets.MinPrice)
	assert.Equal(t, 150.0, facets.MaxPrice)
	require.Len(t, facets.Options, 1)
	assert.Equal(t, "color", facets.Options[0].Option)
	assert.ElementsMatch(t, []string{"red", "black"}, facets.Options[0].Values)
	assert.Len(t, facets.Stores, 2)
}

func TestFreeText_ScoredHitsAndChips(t *testing.T) {
	eng := New()
	eng.Add(domain.ProductHit{ProductID: "1", DisplayName: "Nike Air", Brand: "Nike", Keywords: []string{"sneakers"}, SalePrice: 100, Stock: 2})

	b := query.NewBuilder(query.DefaultBoosts())
	res, err := eng.FreeText(context.Background(), b.FreeText(query.TermForms{Original: "nik"}))
	require.NoError(t, err)

	require.Len(t, res.Hits, 1)
	assert.Greater(t, res.Hits[0].Score, 0.0)

	sug := query.ParseSuggestions(res.Aggregations)
	assert.Equal(t, []string{"Nike Air"}, sug.DisplayNames)
	assert.Equal(t, []string{"Nike"}, sug.Brands)
}

func TestFailWith(t *testing.T) {
	eng := New()
	boom := errors.New("backend down")
	eng.FailWith(boom)

	_, err := eng.Scoped(context.Background(), scopedBody("nike"))
	assert.ErrorIs(t, err, boom)

	eng.FailWith(nil)
	_, err = eng.Scoped(context.Background(), scopedBody("nike"))
	assert.NoError(t, err)
}

func TestScopedCallsCounter(t *testing.T) {
	eng := New()
	require.EqualValues(t, 0, eng.ScopedCalls())

	_, _ = eng.Scoped(context.Background(), scopedBody("a"))
	_, _ = eng.Scoped(context.Background(), scopedBody("b"))

	assert.EqualValues(t, 2, eng.ScopedCalls())
}
