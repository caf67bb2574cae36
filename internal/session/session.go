// Package session owns the per-search-UI state: the committed search result,
// the duplicate-fingerprint short circuit, and the live stock overlay.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/naranjargal/search-service/internal/domain"
)

// Result is what one successful scoped search commits into a session.
type Result struct {
	Facets domain.Facets
	Groups []domain.ProductGroup
	Hits   []domain.ProductHit
	Total  int
}

// Searcher executes one scoped search for the given arguments.
type Searcher interface {
	Scoped(ctx context.Context, field, term string, filters, sort []any) (*Result, error)
}

// Options tune session behavior.
type Options struct {
	// CommitOnFailure controls whether a failed submit still commits its
	// fingerprint. When true (the observed production behavior), an
	// identical retry after a failure is suppressed until the query
	// changes; when false, an identical retry re-queries the backend.
	CommitOnFailure bool
}

// Snapshot is a point-in-time copy of session state for rendering.
type Snapshot struct {
	Facets      domain.Facets         `json:"facets"`
	Groups      []domain.ProductGroup `json:"groups"`
	Total       int                   `json:"total"`
	Loading     bool                  `json:"loading"`
	EmptyResult bool                  `json:"emptyResult"`
}

// Session is the single-writer state behind one active search UI. All
// mutation goes through Submit, ApplyStockDelta, and Reset; there are no
// ambient globals. The mutex is released while the backend call is in
// flight, so stock deltas are never blocked by a pending search.
type Session struct {
	id       string
	searcher Searcher
	logger   *slog.Logger
	opts     Options

	mu        sync.Mutex
	committed *Fingerprint
	pending   *Fingerprint
	facets    domain.Facets
	groups    []domain.ProductGroup
	hits      []domain.ProductHit
	total     int
	loading   bool
	empty     bool
	lastSeen  time.Time

	tracker *VisibilityTracker
}

// New creates an empty session bound to a searcher.
func New(id string, searcher Searcher, logger *slog.Logger, opts Options) *Session {
	return &Session{
		id:       id,
		searcher: searcher,
		logger:   logger,
		opts:     opts,
		facets:   domain.EmptyFacets(),
		groups:   []domain.ProductGroup{},
		lastSeen: time.Now(),
		tracker:  NewVisibilityTracker(DefaultVisibilityInterval),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Tracker returns the session's throttled visibility tracker.
func (s *Session) Tracker() *VisibilityTracker { return s.tracker }

// Submit runs a search for the given arguments unless the fingerprint
// matches the last committed (or currently pending) one, in which case it is
// a no-op returning the current state with zero backend calls.
//
// On success the session's facets, groups, hits, and empty flag are replaced
// wholesale and the fingerprint committed. On failure the session shows an
// empty result and the error is returned for logging; whether the
// fingerprint commits is governed by Options.CommitOnFailure. The loading
// flag is cleared on every path.
func (s *Session) Submit(ctx context.Context, field, term string, filters, sort []any) (Snapshot, error) {
	fp := NewFingerprint(field, term, filters, sort)

	s.mu.Lock()
	s.lastSeen = time.Now()
	if s.committed != nil && s.committed.Equal(fp) {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		submitsTotal.WithLabelValues("duplicate").Inc()
		return snap, nil
	}
	if s.loading && s.pending != nil && s.pending.Equal(fp) {
		// Same question already in flight; absorb the re-trigger.
		snap := s.snapshotLocked()
		s.mu.Unlock()
		submitsTotal.WithLabelValues("duplicate").Inc()
		return snap, nil
	}
	s.loading = true
	s.pending = &fp
	s.mu.Unlock()

	// The backend call runs unlocked: a new fingerprint may race a previous
	// in-flight one, and the last response to commit wins, which is safe
	// because commits replace state wholesale.
	result, err := s.searcher.Scoped(ctx, field, term, fp.Filters, fp.Sort)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.loading = false }()
	s.pending = nil

	if err != nil {
		s.empty = true
		s.groups = []domain.ProductGroup{}
		s.hits = nil
		s.total = 0
		s.facets = domain.EmptyFacets()
		if s.opts.CommitOnFailure {
			s.committed = &fp
		}
		submitsTotal.WithLabelValues("failed").Inc()
		s.logger.ErrorContext(ctx, "search failed",
			slog.String("session_id", s.id),
			slog.String("field", field),
			slog.String("term", term),
			slog.String("error", err.Error()),
		)
		return s.snapshotLocked(), err
	}

	s.facets = result.Facets
	s.groups = result.Groups
	s.hits = result.Hits
	s.total = result.Total
	s.empty = len(result.Hits) == 0
	s.committed = &fp
	s.tracker.SetTotal(len(result.Groups))
	submitsTotal.WithLabelValues("executed").Inc()

	return s.snapshotLocked(), nil
}

// ApplyStockDelta overlays a live stock update onto the current result set.
// Every hit and group member holding the product id gets the new value; an
// id not present in the session is silently dropped. Reports whether any
// record was updated.
func (s *Session) ApplyStockDelta(delta domain.StockDelta) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := false
	for i := range s.hits {
		if s.hits[i].ProductID == delta.ProductID {
			s.hits[i].Stock = delta.Stock
			applied = true
		}
	}
	for i := range s.groups {
		if s.groups[i].Representative.ProductID == delta.ProductID {
			s.groups[i].Representative.Stock = delta.Stock
			applied = true
		}
		for j := range s.groups[i].Siblings {
			if s.groups[i].Siblings[j].ProductID == delta.ProductID {
				s.groups[i].Siblings[j].Stock = delta.Stock
				applied = true
			}
		}
	}
	return applied
}

// Reset clears all session state, including the committed fingerprint.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.committed = nil
	s.pending = nil
	s.facets = domain.EmptyFacets()
	s.groups = []domain.ProductGroup{}
	s.hits = nil
	s.total = 0
	s.loading = false
	s.empty = false
	s.tracker.Reset()
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	return s.snapshotLocked()
}

// LastSeen reports the last time this session was touched.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) snapshotLocked() Snapshot {
	// Siblings must be cloned too: stock deltas write into the live group
	// members after the snapshot has left the lock.
	groups := make([]domain.ProductGroup, len(s.groups))
	for i, g := range s.groups {
		groups[i] = g
		if len(g.Siblings) > 0 {
			groups[i].Siblings = append([]domain.ProductHit(nil), g.Siblings...)
		}
	}
	return Snapshot{
		Facets:      s.facets,
		Groups:      groups,
		Total:       s.total,
		Loading:     s.loading,
		EmptyResult: s.empty,
	}
}
