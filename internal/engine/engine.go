package engine

import (
	"context"
	"encoding/json"

	"github.com/naranjargal/search-service/internal/domain"
)

// ScopedResult carries the raw outcome of a scoped search: the flat hit list
// plus the unparsed aggregation payload. Facet normalization happens in the
// query package, not here.
type ScopedResult struct {
	Hits         []domain.ProductHit
	Total        int
	Aggregations map[string]json.RawMessage
	TookMs       int64
}

// FreeTextResult carries the raw outcome of a free-text preview.
type FreeTextResult struct {
	Hits         []domain.PreviewHit
	Aggregations map[string]json.RawMessage
	TookMs       int64
}

// Engine executes the assembled query bodies against a search backend.
// Implementations may use Elasticsearch or in-memory storage.
type Engine interface {
	// Scoped runs a field-targeted browsing query.
	Scoped(ctx context.Context, body map[string]any) (*ScopedResult, error)

	// FreeText runs an omnibox preview query.
	FreeText(ctx context.Context, body map[string]any) (*FreeTextResult, error)
}
