// Package elasticsearch implements the search engine against a live
// Elasticsearch cluster.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/naranjargal/search-service/internal/domain"
	"github.com/naranjargal/search-service/internal/engine"
)

// DefaultIndexName is the default products index.
const DefaultIndexName = "products"

// Engine is an Elasticsearch-backed implementation of engine.Engine.
type Engine struct {
	client    *elasticsearch.Client
	indexName string
	logger    *slog.Logger
}

// esSearchResponse decodes the parts of a search response this service
// consumes: hit sources with score and highlights, total, and the raw
// aggregation payload (left unparsed for the facet normalizer).
type esSearchResponse struct {
	Took int `json:"took"`
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source    domain.ProductHit     `json:"_source"`
			Score     *float64              `json:"_score"`
			Highlight domain.HighlightSpans `json:"highlight"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]json.RawMessage `json:"aggregations"`
}

// esErrorResponse decodes Elasticsearch error responses.
type esErrorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// New creates an Elasticsearch engine connected to the given URL. If
// indexName is empty, DefaultIndexName is used.
func New(esURL string, indexName string, logger *slog.Logger) (*Engine, error) {
	if indexName == "" {
		indexName = DefaultIndexName
	}

	cfg := elasticsearch.Config{
		Addresses: []string{esURL},
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to create client: %w", err)
	}

	return &Engine{
		client:    client,
		indexName: indexName,
		logger:    logger,
	}, nil
}

// Ping checks whether the Elasticsearch cluster is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	res, err := e.client.Ping(e.client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping: unexpected status %s", res.Status())
	}
	return nil
}

// Scoped runs a field-targeted browsing query and returns the flat hit list
// with the raw aggregation payload.
func (e *Engine) Scoped(ctx context.Context, body map[string]any) (*engine.ScopedResult, error) {
	esResp, err := e.execute(ctx, body, "scoped")
	if err != nil {
		return nil, err
	}

	hits := make([]domain.ProductHit, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		hits = append(hits, hit.Source)
	}

	return &engine.ScopedResult{
		Hits:         hits,
		Total:        esResp.Hits.Total.Value,
		Aggregations: esResp.Aggregations,
		TookMs:       int64(esResp.Took),
	}, nil
}

// FreeText runs an omnibox preview query, carrying scores and highlight
// spans through on each hit.
func (e *Engine) FreeText(ctx context.Context, body map[string]any) (*engine.FreeTextResult, error) {
	esResp, err := e.execute(ctx, body, "freetext")
	if err != nil {
		return nil, err
	}

	hits := make([]domain.PreviewHit, 0, len(esResp.Hits.Hits))
	for _, hit := range esResp.Hits.Hits {
		preview := domain.PreviewHit{
			ProductHit: hit.Source,
			Highlights: hit.Highlight,
		}
		if hit.Score != nil {
			preview.Score = *hit.Score
		}
		hits = append(hits, preview)
	}

	return &engine.FreeTextResult{
		Hits:         hits,
		Aggregations: esResp.Aggregations,
		TookMs:       int64(esResp.Took),
	}, nil
}

// execute marshals the query body, runs the search, and decodes the response.
func (e *Engine) execute(ctx context.Context, body map[string]any, mode string) (*esSearchResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch %s search: marshal query: %w", mode, err)
	}

	res, err := e.client.Search(
		e.client.Search.WithIndex(e.indexName),
		e.client.Search.WithBody(bytes.NewReader(data)),
		e.client.Search.WithContext(ctx),
		e.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch %s search: %w", mode, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.IsError() {
		var errResp esErrorResponse
		if decErr := json.NewDecoder(res.Body).Decode(&errResp); decErr == nil {
			return nil, fmt.Errorf("elasticsearch %s search: %s — %s", mode, errResp.Error.Type, errResp.Error.Reason)
		}
		return nil, fmt.Errorf("elasticsearch %s search: unexpected status %s", mode, res.Status())
	}

	var esResp esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&esResp); err != nil {
		return nil, fmt.Errorf("elasticsearch %s search: decode response: %w", mode, err)
	}

	e.logger.Debug("search executed",
		slog.String("mode", mode),
		slog.Int("hits", len(esResp.Hits.Hits)),
		slog.Int("took_ms", esResp.Took),
	)

	return &esResp, nil
}
