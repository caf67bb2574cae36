// Package query assembles the Elasticsearch request bodies for scoped and
// free-text product searches and normalizes their aggregation payloads.
package query

import (
	"strconv"

	"github.com/naranjargal/search-service/internal/domain"
)

// Page size caps. The scoped page feeds the full results grid; the free-text
// page only previews the omnibox.
const (
	ScopedSize   = 100
	FreeTextSize = 5
)

// Bucket sizes for the aggregation requests.
const (
	optionBucketSize     = 10
	suggestNameSize      = 2
	suggestKeywordsSize  = 2
	suggestBrandSize     = 3
	suggestTaxonomySize  = 3
	highlightPreTag      = "<em>"
	highlightPostTag     = "</em>"
)

// Boosts holds the prefix-field boost weights. They are a tuning parameter:
// the builder never hard-codes them, so they can change without touching
// query assembly.
type Boosts struct {
	Brand       int
	DisplayName int
	Keywords    int
}

// DefaultBoosts returns the production weights.
func DefaultBoosts() Boosts {
	return Boosts{Brand: 8, DisplayName: 8, Keywords: 6}
}

// TermForms carries the original term plus its derived script forms. The
// builder deduplicates identical forms before emitting should clauses.
type TermForms struct {
	Original string
	Latin    string
	Cyrillic string
}

// distinct returns the unique, non-empty forms in original/latin/cyrillic
// order.
func (f TermForms) distinct() []string {
	forms := make([]string, 0, 3)
	seen := make(map[string]struct{}, 3)
	for _, s := range []string{f.Original, f.Latin, f.Cyrillic} {
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		forms = append(forms, s)
	}
	return forms
}

// Builder assembles search request bodies as the JSON-shaped maps the
// Elasticsearch client expects.
type Builder struct {
	boosts Boosts
}

// NewBuilder creates a query builder with the given boost weights.
func NewBuilder(boosts Boosts) *Builder {
	return &Builder{boosts: boosts}
}

// prefixFields returns the boosted prefix triplet for the "search" selector,
// or the single selected field otherwise.
func (b *Builder) prefixFields(field string) []string {
	if field == domain.FieldSearch {
		return []string{
			"brand.prefix^" + strconv.Itoa(b.boosts.Brand),
			"displayName.prefix^" + strconv.Itoa(b.boosts.DisplayName),
			"keywords.prefix^" + strconv.Itoa(b.boosts.Keywords),
		}
	}
	return []string{field}
}

// stockAndPriceFilters are the base must clauses shared by both query shapes:
// a valid sale price and at least one unit in stock.
func stockAndPriceFilters() []any {
	return []any{
		map[string]any{"range": map[string]any{"salePrice": map[string]any{"gt": 1}}},
		map[string]any{"range": map[string]any{"stock": map[string]any{"gte": 1}}},
	}
}

func multiMatch(term string, fields []string, matchType string) map[string]any {
	return map[string]any{
		"multi_match": map[string]any{
			"query":  term,
			"fields": fields,
			"type":   matchType,
		},
	}
}

// Scoped builds the field-targeted browsing request: base filters, a
// should-group of bool_prefix matches over the distinct term forms, external
// filter clauses appended to must, pass-through sort, and the full facet
// aggregations.
func (b *Builder) Scoped(field string, forms TermForms, filters []any, sort []any) map[string]any {
	fields := b.prefixFields(field)

	should := make([]any, 0, 3)
	for _, term := range forms.distinct() {
		should = append(should, multiMatch(term, fields, "bool_prefix"))
	}

	must := []any{
		map[string]any{
			"bool": map[string]any{
				"filter": map[string]any{
					"bool": map[string]any{"must": stockAndPriceFilters()},
				},
			},
		},
		map[string]any{"bool": map[string]any{"should": should}},
	}
	// Externally supplied filter clauses are opaque; concatenate as-is.
	must = append(must, filters...)

	if sort == nil {
		sort = []any{}
	}

	return map[string]any{
		"size":  ScopedSize,
		"query": map[string]any{"bool": map[string]any{"must": must}},
		"aggs": map[string]any{
			"brands": map[string]any{
				"terms": map[string]any{"field": "brand.keyword"},
			},
			"minPrice": map[string]any{
				"min": map[string]any{"field": "salePrice"},
			},
			"maxPrice": map[string]any{
				"max": map[string]any{"field": "salePrice"},
			},
			"options": map[string]any{
				"nested": map[string]any{"path": "mainOptions"},
				"aggs": map[string]any{
					"byOptions": map[string]any{
						"terms": map[string]any{
							"field": "mainOptions.option",
							"size":  optionBucketSize,
						},
						"aggs": map[string]any{
							"byValues": map[string]any{
								"terms": map[string]any{
									"field": "mainOptions.value",
									"size":  optionBucketSize,
								},
							},
						},
					},
				},
			},
			"stores": map[string]any{
				"terms": map[string]any{"field": "storeId"},
			},
		},
		"sort": sort,
	}
}

// FreeText builds the omnibox preview request: base filters as must,
// bool_prefix should clauses for each distinct form plus a phrase_prefix
// clause for autocomplete affinity, suggestion-sized aggregations, and
// highlighting on the display fields.
func (b *Builder) FreeText(forms TermForms) map[string]any {
	fields := b.prefixFields(domain.FieldSearch)

	should := make([]any, 0, 4)
	for _, term := range forms.distinct() {
		should = append(should, multiMatch(term, fields, "bool_prefix"))
	}
	should = append(should, multiMatch(forms.Original, fields, "phrase_prefix"))

	return map[string]any{
		"size": FreeTextSize,
		"query": map[string]any{
			"bool": map[string]any{
				"must":                 stockAndPriceFilters(),
				"should":               should,
				"minimum_should_match": 1,
			},
		},
		"aggs": map[string]any{
			"displayName": map[string]any{
				"terms": map[string]any{"field": "displayName.keyword", "size": suggestNameSize},
			},
			"keywords": map[string]any{
				"terms": map[string]any{"field": "keywords.keyword", "size": suggestKeywordsSize},
			},
			"brands": map[string]any{
				"terms": map[string]any{"field": "brand.keyword", "size": suggestBrandSize},
			},
			"taxonomies": map[string]any{
				"terms": map[string]any{"field": "taxon.label.keyword", "size": suggestTaxonomySize},
			},
		},
		"highlight": map[string]any{
			"fields": map[string]any{
				"displayName": map[string]any{},
				"brand":       map[string]any{},
				"keywords":    map[string]any{},
				"description": map[string]any{},
			},
			"pre_tags":  []any{highlightPreTag},
			"post_tags": []any{highlightPostTag},
		},
	}
}

