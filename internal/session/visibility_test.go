package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock drives the tracker's sampling interval deterministically.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTrackedClock() (*VisibilityTracker, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	tr := NewVisibilityTracker(DefaultVisibilityInterval)
	tr.now = func() time.Time { return clock.now }
	return tr, clock
}

func TestProgress_HighestVisibleIndex(t *testing.T) {
	tr, clock := newTrackedClock()
	tr.SetTotal(10)
	tr.Observe(0, true)
	tr.Observe(3, true)
	tr.Observe(1, true)

	clock.advance(DefaultVisibilityInterval)
	p := tr.Progress()

	assert.Equal(t, 4, p.Position)
	assert.Equal(t, 10, p.Total)
}

func TestProgress_ThrottlesEvaluation(t *testing.T) {
	tr, clock := newTrackedClock()
	tr.SetTotal(10)
	tr.Observe(2, true)

	clock.advance(DefaultVisibilityInterval)
	assert.Equal(t, 3, tr.Progress().Position)

	// Within the interval the sample does not move, no matter how many
	// observations arrive.
	tr.Observe(7, true)
	clock.advance(DefaultVisibilityInterval / 2)
	assert.Equal(t, 3, tr.Progress().Position)

	clock.advance(DefaultVisibilityInterval)
	assert.Equal(t, 8, tr.Progress().Position)
}

func TestProgress_LeavingViewport(t *testing.T) {
	tr, clock := newTrackedClock()
	tr.SetTotal(5)
	tr.Observe(4, true)
	clock.advance(DefaultVisibilityInterval)
	assert.Equal(t, 5, tr.Progress().Position)

	tr.Observe(4, false)
	tr.Observe(1, true)
	clock.advance(DefaultVisibilityInterval)
	assert.Equal(t, 2, tr.Progress().Position)
}

func TestProgress_NothingVisible(t *testing.T) {
	tr, clock := newTrackedClock()
	tr.SetTotal(5)

	clock.advance(DefaultVisibilityInterval)
	p := tr.Progress()

	assert.Zero(t, p.Position)
	assert.Equal(t, 5, p.Total)
}

func TestSetTotal_DropsStaleIndices(t *testing.T) {
	tr, clock := newTrackedClock()
	tr.SetTotal(10)
	tr.Observe(8, true)
	clock.advance(DefaultVisibilityInterval)
	assert.Equal(t, 9, tr.Progress().Position)

	// A smaller result set invalidates out-of-range observations.
	tr.SetTotal(3)
	clock.advance(DefaultVisibilityInterval)
	p := tr.Progress()
	assert.Zero(t, p.Position)
	assert.Equal(t, 3, p.Total)
}

func TestReset_ClearsObservations(t *testing.T) {
	tr, clock := newTrackedClock()
	tr.SetTotal(5)
	tr.Observe(2, true)
	clock.advance(DefaultVisibilityInterval)
	assert.Equal(t, 3, tr.Progress().Position)

	tr.Reset()
	p := tr.Progress()
	assert.Zero(t, p.Position)
	assert.Zero(t, p.Total)
}
