package session

import (
	"sync"
	"time"
)

// DriftLimit is how far the extrapolated clock may wander from an
// authoritative media-time sample before the anchor is reset.
const DriftLimit = 0.05

// Clock turns sparse authoritative playback-time samples into a smooth
// monotone read. It anchors a wall-clock instant to a known media time and
// extrapolates between updates, re-anchoring only when the drift exceeds
// DriftLimit. This keeps scoring ticks free of the stutter a raw transport
// position would have.
type Clock struct {
	mu          sync.Mutex
	anchorWall  time.Time
	anchorMedia float64
	started     bool

	now func() time.Time // injectable for tests
}

// NewClock returns an unstarted clock.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// Update feeds an authoritative media-time sample (seconds since song
// start). The first call starts the clock; later calls re-anchor only when
// the extrapolation has drifted past DriftLimit. Returns true when the
// anchor moved.
func (c *Clock) Update(mediaTime float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	wall := c.now()
	if !c.started {
		c.anchorWall = wall
		c.anchorMedia = mediaTime
		c.started = true
		return true
	}

	extrapolated := c.anchorMedia + wall.Sub(c.anchorWall).Seconds()
	drift := extrapolated - mediaTime
	if drift < 0 {
		drift = -drift
	}
	if drift > DriftLimit {
		c.anchorWall = wall
		c.anchorMedia = mediaTime
		return true
	}
	return false
}

// Now extrapolates the current media time from the anchor. Zero before the
// first Update.
func (c *Clock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return 0
	}
	return c.anchorMedia + c.now().Sub(c.anchorWall).Seconds()
}

// Started reports whether the clock has received an anchor yet.
func (c *Clock) Started() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}
