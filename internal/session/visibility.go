package session

import (
	"sort"
	"sync"
	"time"
)

// DefaultVisibilityInterval is the minimum time between progress
// evaluations during continuous scroll input.
const DefaultVisibilityInterval = 100 * time.Millisecond

// Progress is the scroll-position readout: the highest visible group as a
// 1-based position, out of the total group count. Zero position means
// nothing is currently visible.
type Progress struct {
	Position int `json:"position"`
	Total    int `json:"total"`
}

// VisibilityTracker records which group indices are in view and samples the
// progress readout at most once per interval. Observations are always
// recorded; only the derived sample is rate-limited, so a burst of scroll
// events costs one evaluation and the next read after the interval catches
// up.
type VisibilityTracker struct {
	mu       sync.Mutex
	interval time.Duration
	now      func() time.Time

	visible  map[int]struct{}
	total    int
	lastEval time.Time
	sampled  Progress
	dirty    bool
}

// NewVisibilityTracker creates a tracker with the given minimum sampling
// interval.
func NewVisibilityTracker(interval time.Duration) *VisibilityTracker {
	return &VisibilityTracker{
		interval: interval,
		now:      time.Now,
		visible:  make(map[int]struct{}),
	}
}

// SetTotal sets the group count of the current result set and drops stale
// observations beyond it.
func (t *VisibilityTracker) SetTotal(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total = total
	for idx := range t.visible {
		if idx >= total {
			delete(t.visible, idx)
		}
	}
	t.dirty = true
}

// Observe records that the group at index entered or left the viewport.
func (t *VisibilityTracker) Observe(index int, inView bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if index < 0 {
		return
	}
	if inView {
		t.visible[index] = struct{}{}
	} else {
		delete(t.visible, index)
	}
	t.dirty = true
}

// Progress returns the sampled readout, re-evaluating only if the minimum
// interval has elapsed since the last evaluation.
func (t *VisibilityTracker) Progress() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if t.dirty && now.Sub(t.lastEval) >= t.interval {
		t.sampled = t.evaluateLocked()
		t.lastEval = now
		t.dirty = false
	}
	t.sampled.Total = t.total
	return t.sampled
}

// Reset clears all observations.
func (t *VisibilityTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.visible = make(map[int]struct{})
	t.total = 0
	t.sampled = Progress{}
	t.dirty = false
	t.lastEval = time.Time{}
}

func (t *VisibilityTracker) evaluateLocked() Progress {
	if len(t.visible) == 0 {
		return Progress{Total: t.total}
	}
	indices := make([]int, 0, len(t.visible))
	for idx := range t.visible {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return Progress{
		Position: indices[len(indices)-1] + 1,
		Total:    t.total,
	}
}
