package query

import (
	"encoding/json"

	"github.com/naranjargal/search-service/internal/domain"
)

// termsBucket is one terms-aggregation bucket.
type termsBucket struct {
	Key      json.RawMessage `json:"key"`
	DocCount int64           `json:"doc_count"`
}

// keyString renders a bucket key as a string whether the backend returned it
// as a JSON string or a number.
func (b termsBucket) keyString() string {
	var s string
	if err := json.Unmarshal(b.Key, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(b.Key, &n); err == nil {
		return n.String()
	}
	return string(b.Key)
}

type termsAgg struct {
	Buckets []termsBucket `json:"buckets"`
}

type metricAgg struct {
	Value *float64 `json:"value"`
}

type optionBucket struct {
	Key      json.RawMessage `json:"key"`
	ByValues termsAgg        `json:"byValues"`
}

type optionsAgg struct {
	ByOptions struct {
		Buckets []optionBucket `json:"buckets"`
	} `json:"byOptions"`
}

// ParseFacets normalizes a raw aggregation payload into the facet set.
// Every facet key is optional: an absent or malformed key yields that
// facet's empty/zero default, never an error. Numeric metrics with a null
// value decode to zero.
func ParseFacets(raw map[string]json.RawMessage) domain.Facets {
	facets := domain.EmptyFacets()
	if raw == nil {
		return facets
	}

	if data, ok := raw["brands"]; ok {
		var agg termsAgg
		if err := json.Unmarshal(data, &agg); err == nil {
			for _, b := range agg.Buckets {
				facets.Brands = append(facets.Brands, b.keyString())
			}
		}
	}

	facets.MinPrice = parseMetric(raw, "minPrice")
	facets.MaxPrice = parseMetric(raw, "maxPrice")

	if data, ok := raw["options"]; ok {
		var agg optionsAgg
		if err := json.Unmarshal(data, &agg); err == nil {
			for _, outer := range agg.ByOptions.Buckets {
				// An outer bucket with no inner matches keeps its option
				// with an empty value list.
				values := make([]string, 0, len(outer.ByValues.Buckets))
				for _, inner := range outer.ByValues.Buckets {
					values = append(values, inner.keyString())
				}
				facets.Options = append(facets.Options, domain.OptionFacet{
					Option: termsBucket{Key: outer.Key}.keyString(),
					Values: values,
				})
			}
		}
	}

	if data, ok := raw["stores"]; ok {
		var agg termsAgg
		if err := json.Unmarshal(data, &agg); err == nil {
			for _, b := range agg.Buckets {
				facets.Stores = append(facets.Stores, domain.StoreFacet{
					StoreID: b.keyString(),
					Count:   b.DocCount,
				})
			}
		}
	}

	return facets
}

// ParseSuggestions extracts the omnibox suggestion chips from a free-text
// aggregation payload. Missing keys yield empty lists.
func ParseSuggestions(raw map[string]json.RawMessage) domain.Suggestions {
	return domain.Suggestions{
		DisplayNames: parseTermsKeys(raw, "displayName"),
		Keywords:     parseTermsKeys(raw, "keywords"),
		Brands:       parseTermsKeys(raw, "brands"),
		Taxonomies:   parseTermsKeys(raw, "taxonomies"),
	}
}

func parseTermsKeys(raw map[string]json.RawMessage, key string) []string {
	keys := []string{}
	data, ok := raw[key]
	if !ok {
		return keys
	}
	var agg termsAgg
	if err := json.Unmarshal(data, &agg); err != nil {
		return keys
	}
	for _, b := range agg.Buckets {
		keys = append(keys, b.keyString())
	}
	return keys
}

func parseMetric(raw map[string]json.RawMessage, key string) float64 {
	data, ok := raw[key]
	if !ok {
		return 0
	}
	var agg metricAgg
	if err := json.Unmarshal(data, &agg); err != nil || agg.Value == nil {
		return 0
	}
	return *agg.Value
}
