package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/naranjargal/search-service/internal/domain"
)

// Registry holds one session per active search UI, keyed by session id.
// Sessions expire after a TTL without activity so stock subscriptions never
// outlive the UI that opened them.
type Registry struct {
	searcher Searcher
	logger   *slog.Logger
	opts     Options
	ttl      time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRegistry creates a registry and starts its expiry sweeper.
func NewRegistry(searcher Searcher, logger *slog.Logger, opts Options, ttl time.Duration) *Registry {
	r := &Registry{
		searcher: searcher,
		logger:   logger,
		opts:     opts,
		ttl:      ttl,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
	}
	go r.sweep()
	return r
}

// GetOrCreate returns the session for id, creating it if absent. An empty id
// allocates a fresh session with a generated identifier.
func (r *Registry) GetOrCreate(id string) *Session {
	if id != "" {
		r.mu.RLock()
		s, ok := r.sessions[id]
		r.mu.RUnlock()
		if ok {
			return s
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id == "" {
		id = uuid.New().String()
	} else if s, ok := r.sessions[id]; ok {
		return s
	}

	s := New(id, r.searcher, r.logger, r.opts)
	r.sessions[id] = s
	return s
}

// Get returns the session for id if it exists.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove tears down one session.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Broadcast overlays a stock delta onto every live session. Sessions that do
// not hold the product simply ignore it.
func (r *Registry) Broadcast(delta domain.StockDelta) int {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	applied := 0
	for _, s := range sessions {
		if s.ApplyStockDelta(delta) {
			applied++
		}
	}
	if applied > 0 {
		stockDeltasApplied.Inc()
	} else {
		stockDeltasDropped.Inc()
	}
	return applied
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close stops the expiry sweeper and drops all sessions.
func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.stop) })

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = make(map[string]*Session)
}

func (r *Registry) sweep() {
	interval := r.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.expire(time.Now())
		}
	}
}

// expire removes sessions idle longer than the TTL.
func (r *Registry) expire(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		if now.Sub(s.LastSeen()) > r.ttl {
			delete(r.sessions, id)
			r.logger.Debug("session expired", slog.String("session_id", id))
		}
	}
}
