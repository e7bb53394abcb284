package animation

import (
	"math"
	"sync"
	"time"
)

// Clock advances a normalized phase in real time for live previews. It is
// safe for concurrent use.
type Clock struct {
	mu     sync.Mutex
	period time.Duration
	phase  float64
}

// NewClock returns a clock whose phase wraps once per period. A
// non-positive period is treated as one second.
func NewClock(period time.Duration) *Clock {
	if period <= 0 {
		period = time.Second
	}
	return &Clock{period: period}
}

// NextPhase advances the clock by dt and returns the new phase in [0,1).
func (c *Clock) NextPhase(dt time.Duration) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if dt > 0 {
		p := c.phase + float64(dt)/float64(c.period)
		c.phase = p - math.Floor(p)
	}
	return c.phase
}

// Phase returns the current phase without advancing.
func (c *Clock) Phase() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Reset rewinds the clock to phase 0.
func (c *Clock) Reset() {
	c.mu.Lock()
	c.phase = 0
	c.mu.Unlock()
}
