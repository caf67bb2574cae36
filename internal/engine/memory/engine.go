// Package memory provides an in-memory engine.Engine used by tests. It
// approximates the backend's prefix matching and derives the same
// aggregation payload shapes from whatever documents it holds.
package memory

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/naranjargal/search-service/internal/domain"
	"github.com/naranjargal/search-service/internal/engine"
)

// Engine is an in-memory implementation of engine.Engine. Thread-safe.
type Engine struct {
	mu          sync.RWMutex
	docs        []domain.ProductHit
	scopedCalls atomic.Int64
	failErr     error
}

// New creates an empty in-memory engine.
func New() *Engine {
	return &Engine{}
}

// Add stores documents in arrival order.
func (e *Engine) Add(hits ...domain.ProductHit) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.docs = append(e.docs, hits...)
}

// FailWith makes every subsequent query return err. Pass nil to recover.
func (e *Engine) FailWith(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failErr = err
}

// ScopedCalls reports how many scoped queries have been executed.
func (e *Engine) ScopedCalls() int64 {
	return e.scopedCalls.Load()
}

// Scoped runs a field-targeted query against the stored documents and
// synthesizes the facet aggregations from the matches.
func (e *Engine) Scoped(_ context.Context, body map[string]any) (*engine.ScopedResult, error) {
	e.scopedCalls.Add(1)

	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.failErr != nil {
		return nil, e.failErr
	}

	matched := e.match(body)

	return &engine.ScopedResult{
		Hits:         matched,
		Total:        len(matched),
		Aggregations: buildAggregations(matched),
	}, nil
}

// FreeText runs an omnibox query and returns preview hits with a fixed score.
func (e *Engine) FreeText(_ context.Context, body map[string]any) (*engine.FreeTextResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.failErr != nil {
		return nil, e.failErr
	}

	matched := e.match(body)
	if len(matched) > 5 {
		matched = matched[:5]
	}

	hits := make([]domain.PreviewHit, 0, len(matched))
	for i, hit := range matched {
		hit.Score = float64(len(matched) - i)
		hits = append(hits, domain.PreviewHit{ProductHit: hit})
	}

	return &engine.FreeTextResult{
		Hits:         hits,
		Aggregations: buildSuggestionAggregations(matched),
	}, nil
}

// match applies the base stock/price filters and prefix-matches the query
// terms extracted from the body's multi_match clauses.
func (e *Engine) match(body map[string]any) []domain.ProductHit {
	terms, fields := extractTerms(body)

	matched := make([]domain.ProductHit, 0)
	for _, doc := range e.docs {
		if doc.SalePrice <= 1 || doc.Stock < 1 {
			continue
		}
		if matchesAny(doc, terms, fields) {
			matched = append(matched, doc)
		}
	}
	return matched
}

// extractTerms walks the query body collecting multi_match queries and the
// field list of the first clause.
func extractTerms(body map[string]any) (terms []string, fields []string) {
	var walk func(node any)
	walk = func(node any) {
		switch v := node.(type) {
		case map[string]any:
			if mm, ok := v["multi_match"].(map[string]any); ok {
				if q, ok := mm["query"].(string); ok {
					terms = append(terms, q)
				}
				if fields == nil {
					if fs, ok := mm["fields"].([]string); ok {
						fields = fs
					}
				}
				return
			}
			for _, child := range v {
				walk(child)
			}
		case []any:
			for _, child := range v {
				walk(child)
			}
		}
	}
	walk(body["query"])
	return terms, fields
}

func matchesAny(doc domain.ProductHit, terms, fields []string) bool {
	single := ""
	if len(fields) == 1 && !strings.Contains(fields[0], "^") {
		single = fields[0]
	}

	for _, term := range terms {
		t := strings.ToLower(term)
		switch single {
		case domain.FieldBrand:
			if strings.HasPrefix(strings.ToLower(doc.Brand), t) {
				return true
			}
		case domain.FieldKeywords:
			if prefixInList(doc.Keywords, t) {
				return true
			}
		default:
			if strings.HasPrefix(strings.ToLower(doc.Brand), t) ||
				strings.HasPrefix(strings.ToLower(doc.DisplayName), t) ||
				prefixInList(doc.Keywords, t) {
				return true
			}
		}
	}
	return false
}

func prefixInList(list []string, prefix string) bool {
	for _, s := range list {
		if strings.HasPrefix(strings.ToLower(s), prefix) {
			return true
		}
	}
	return false
}

func mustRaw(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return data
}

type bucket struct {
	Key      any   `json:"key"`
	DocCount int64 `json:"doc_count"`
}

func termsBuckets(counts map[string]int64, order []string) map[string]any {
	buckets := make([]bucket, 0, len(order))
	for _, key := range order {
		buckets = append(buckets, bucket{Key: key, DocCount: counts[key]})
	}
	return map[string]any{"buckets": buckets}
}

// buildAggregations synthesizes the scoped facet payload (brands, price
// metrics, nested options, stores) from the matched documents.
func buildAggregations(matched []domain.ProductHit) map[string]json.RawMessage {
	brandCounts := map[string]int64{}
	var brandOrder []string
	storeCounts := map[string]int64{}
	var storeOrder []string
	optionValues := map[string][]string{}
	var optionOrder []string

	var minPrice, maxPrice *float64
	for _, doc := range matched {
		if doc.Brand != "" {
			if _, seen := brandCounts[doc.Brand]; !seen {
				brandOrder = append(brandOrder, doc.Brand)
			}
			brandCounts[doc.Brand]++
		}
		if doc.StoreID != "" {
			if _, seen := storeCounts[doc.StoreID]; !seen {
				storeOrder = append(storeOrder, doc.StoreID)
			}
			storeCounts[doc.StoreID]++
		}
		for _, opt := range doc.MainOptions {
			if _, seen := optionValues[opt.Option]; !seen {
				optionOrder = append(optionOrder, opt.Option)
			}
			optionValues[opt.Option] = append(optionValues[opt.Option], opt.Value)
		}
		p := doc.SalePrice
		if minPrice == nil || p < *minPrice {
			minPrice = &p
		}
		if maxPrice == nil || p > *maxPrice {
			maxPrice = &p
		}
	}

	optionBuckets := make([]map[string]any, 0, len(optionOrder))
	for _, opt := range optionOrder {
		valueCounts := map[string]int64{}
		var valueOrder []string
		for _, v := range optionValues[opt] {
			if _, seen := valueCounts[v]; !seen {
				valueOrder = append(valueOrder, v)
			}
			valueCounts[v]++
		}
		optionBuckets = append(optionBuckets, map[string]any{
			"key":      opt,
			"byValues": termsBuckets(valueCounts, valueOrder),
		})
	}

	aggs := map[string]json.RawMessage{
		"brands":   mustRaw(termsBuckets(brandCounts, brandOrder)),
		"minPrice": mustRaw(map[string]any{"value": minPrice}),
		"maxPrice": mustRaw(map[string]any{"value": maxPrice}),
		"options":  mustRaw(map[string]any{"byOptions": map[string]any{"buckets": optionBuckets}}),
		"stores":   mustRaw(termsBuckets(storeCounts, storeOrder)),
	}
	return aggs
}

// buildSuggestionAggregations synthesizes the free-text chip payload.
func buildSuggestionAggregations(matched []domain.ProductHit) map[string]json.RawMessage {
	nameCounts := map[string]int64{}
	brandCounts := map[string]int64{}
	keywordCounts := map[string]int64{}
	var nameOrder, brandOrder, keywordOrder []string

	for _, doc := range matched {
		if doc.DisplayName != "" {
			if _, seen := nameCounts[doc.DisplayName]; !seen {
				nameOrder = append(nameOrder, doc.DisplayName)
			}
			nameCounts[doc.DisplayName]++
		}
		if doc.Brand != "" {
			if _, seen := brandCounts[doc.Brand]; !seen {
				brandOrder = append(brandOrder, doc.Brand)
			}
			brandCounts[doc.Brand]++
		}
		for _, kw := range doc.Keywords {
			if _, seen := keywordCounts[kw]; !seen {
				keywordOrder = append(keywordOrder, kw)
			}
			keywordCounts[kw]++
		}
	}

	clip := func(order []string, n int) []string {
		if len(order) > n {
			return order[:n]
		}
		return order
	}

	return map[string]json.RawMessage{
		"displayName": mustRaw(termsBuckets(nameCounts, clip(nameOrder, 2))),
		"keywords":    mustRaw(termsBuckets(keywordCounts, clip(keywordOrder, 2))),
		"brands":      mustRaw(termsBuckets(brandCounts, clip(brandOrder, 3))),
		"taxonomies":  mustRaw(termsBuckets(map[string]int64{}, nil)),
	}
}
