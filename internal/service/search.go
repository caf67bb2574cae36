// Package service implements the business logic for bilingual product
// search: term form derivation, query assembly, and result shaping.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/naranjargal/search-service/internal/domain"
	"github.com/naranjargal/search-service/internal/engine"
	"github.com/naranjargal/search-service/internal/query"
	"github.com/naranjargal/search-service/internal/script"
	"github.com/naranjargal/search-service/internal/session"
	"github.com/naranjargal/search-service/internal/translit"
	apperrors "github.com/naranjargal/search-service/pkg/errors"
)

// MinPreviewTermLength is the shortest trimmed term that triggers a
// free-text preview query. Shorter input returns an empty preview without
// touching the backend.
const MinPreviewTermLength = 2

// PreviewResult is the outcome of one free-text preview lookup.
type PreviewResult struct {
	Hits        []domain.PreviewHit `json:"hits"`
	Suggestions domain.Suggestions  `json:"suggestions"`
	TookMs      int64               `json:"tookMs"`
}

// SearchService derives the script forms of a term, assembles the query
// bodies, and normalizes engine responses into domain results. It is the
// session.Searcher used behind every search session.
type SearchService struct {
	engine  engine.Engine
	tr      translit.Transliterator
	builder *query.Builder
	logger  *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(eng engine.Engine, tr translit.Transliterator, boosts query.Boosts, logger *slog.Logger) *SearchService {
	return &SearchService{
		engine:  eng,
		tr:      tr,
		builder: query.NewBuilder(boosts),
		logger:  logger,
	}
}

// forms derives every query form of a term: the original plus its
// transliterated counterpart in the opposite script.
func (s *SearchService) forms(term string) query.TermForms {
	kind := script.Detect(term)
	counterpart := translit.Counterpart(s.tr, term, kind)

	f := query.TermForms{Original: term}
	switch kind {
	case script.Cyrillic:
		f.Cyrillic = term
		f.Latin = counterpart
	case script.Latin:
		f.Latin = term
		f.Cyrillic = counterpart
	}
	return f
}

// Scoped runs one field-targeted search and shapes the response into the
// facets, variant groups, and flat hits a session commits.
func (s *SearchService) Scoped(ctx context.Context, field, term string, filters, sort []any) (*session.Result, error) {
	if !domain.IsValidField(field) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown search field %q", field))
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperrors.InvalidInput("term is required")
	}

	body := s.builder.Scoped(field, s.forms(term), filters, sort)

	res, err := s.engine.Scoped(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("scoped search: %w", err)
	}

	groups := domain.GroupProducts(res.Hits)

	s.logger.DebugContext(ctx, "scoped search executed",
		slog.String("field", field),
		slog.String("term", term),
		slog.Int("total", res.Total),
		slog.Int("groups", len(groups)),
		slog.Int64("took_ms", res.TookMs),
	)

	return &session.Result{
		Facets: query.ParseFacets(res.Aggregations),
		Groups: groups,
		Hits:   res.Hits,
		Total:  res.Total,
	}, nil
}

// Preview runs one stateless free-text lookup for the omnibox. Terms
// shorter than MinPreviewTermLength return an empty preview.
func (s *SearchService) Preview(ctx context.Context, term string) (*PreviewResult, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < MinPreviewTermLength {
		return &PreviewResult{Hits: []domain.PreviewHit{}}, nil
	}

	body := s.builder.FreeText(s.forms(term))

	res, err := s.engine.FreeText(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("free-text preview: %w", err)
	}

	hits := res.Hits
	if hits == nil {
		hits = []domain.PreviewHit{}
	}

	s.logger.DebugContext(ctx, "preview executed",
		slog.String("term", term),
		slog.Int("hits", len(hits)),
		slog.Int64("took_ms", res.TookMs),
	)

	return &PreviewResult{
		Hits:        hits,
		Suggestions: query.ParseSuggestions(res.Aggregations),
		TookMs:      res.TookMs,
	}, nil
}
