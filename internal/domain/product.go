package domain

// Field selectors for search requests. FieldSearch targets the boosted
// brand/name/keyword prefix triplet; the others scope the query to a single
// document field for field-scoped browsing.
const (
	FieldSearch   = "search"
	FieldBrand    = "brand"
	FieldKeywords = "keywords"
)

// ValidFields returns the accepted field selector values.
func ValidFields() []string {
	return []string{FieldSearch, FieldBrand, FieldKeywords}
}

// IsValidField checks whether the given field selector is accepted.
func IsValidField(field string) bool {
	for _, f := range ValidFields() {
		if f == field {
			return true
		}
	}
	return false
}

// OptionValue is one main-option entry on a product (e.g. option "color",
// value "red").
type OptionValue struct {
	Option string `json:"option"`
	Value  string `json:"value"`
}

// TaxonomyNode is one level of a product's taxonomy path.
type TaxonomyNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ProductHit is one raw matched product record from the search backend.
type ProductHit struct {
	ProductID       string         `json:"productId"`
	GroupID         string         `json:"groupId,omitempty"`
	DisplayName     string         `json:"displayName"`
	Brand           string         `json:"brand"`
	Keywords        []string       `json:"keywords,omitempty"`
	MainPrice       float64        `json:"mainPrice"`
	SalePrice       float64        `json:"salePrice"`
	Stock           int64          `json:"stock"`
	StoreID         string         `json:"storeId"`
	DisplayImageURL string         `json:"displayImageUrl,omitempty"`
	MainOptions     []OptionValue  `json:"mainOptions,omitempty"`
	Taxonomy        []TaxonomyNode `json:"taxonomy,omitempty"`
	Score           float64        `json:"score,omitempty"`
}

// OptionFacet maps one option name to the ordered values seen for it.
type OptionFacet struct {
	Option string   `json:"option"`
	Values []string `json:"values"`
}

// StoreFacet is a per-store hit count.
type StoreFacet struct {
	StoreID string `json:"storeId"`
	Count   int64  `json:"count"`
}

// Facets is the normalized facet set derived from one search response.
// Facets are replaced wholesale on every new search, never edited in place.
type Facets struct {
	Brands   []string      `json:"brands"`
	MinPrice float64       `json:"minPrice"`
	MaxPrice float64       `json:"maxPrice"`
	Options  []OptionFacet `json:"options"`
	Stores   []StoreFacet  `json:"stores"`
}

// EmptyFacets returns a facet set with all facets at their zero defaults.
func EmptyFacets() Facets {
	return Facets{
		Brands:  []string{},
		Options: []OptionFacet{},
		Stores:  []StoreFacet{},
	}
}

// Suggestions are the chip lists parsed from the free-text preview
// aggregations. They feed the omnibox suggestion rows, not full faceting.
type Suggestions struct {
	DisplayNames []string `json:"displayNames"`
	Keywords     []string `json:"keywords"`
	Brands       []string `json:"brands"`
	Taxonomies   []string `json:"taxonomies"`
}

// HighlightSpans maps a document field to its highlighted fragments.
type HighlightSpans map[string][]string

// PreviewHit is one scored free-text hit with its highlight spans.
type PreviewHit struct {
	ProductHit
	Highlights HighlightSpans `json:"highlights,omitempty"`
}

// StockDelta is one live stock-update event for a single product.
type StockDelta struct {
	ProductID string `json:"productId"`
	Stock     int64  `json:"stock"`
}
