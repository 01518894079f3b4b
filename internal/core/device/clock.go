// Package device provides the frame clock entities read their timing from.
package device

import (
	"sync"
	"time"
)

// MaxDelta caps the delta of a single tick so a stalled frame does not make
// physics jump.
const MaxDelta = 250 * time.Millisecond

// Clock measures frame time. Tick is called once per frame by the frame
// loop; readers may call the other methods from any goroutine.
type Clock struct {
	mu      sync.RWMutex
	now     func() time.Time
	start   time.Time
	last    time.Time
	delta   time.Duration
	frame   uint64
	started bool
}

type Option func(*Clock)

// WithNow replaces the time source.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) { c.now = now }
}

func NewClock(opts ...Option) *Clock {
	c := &Clock{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tick starts a new frame and returns its delta. The first tick has a zero
// delta.
func (c *Clock) Tick() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if !c.started {
		c.start = now
		c.last = now
		c.started = true
	}
	c.delta = min(max(now.Sub(c.last), 0), MaxDelta)
	c.last = now
	c.frame++
	return c.delta
}

// Delta returns the duration of the last frame.
func (c *Clock) Delta() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.delta
}

// DeltaTime returns the last frame duration in seconds.
func (c *Clock) DeltaTime() float32 {
	return float32(c.Delta().Seconds())
}

// Elapsed returns the time between the first and the last tick.
func (c *Clock) Elapsed() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last.Sub(c.start)
}

// Frame returns the number of ticks.
func (c *Clock) Frame() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frame
}

// Reset forgets all ticks.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = false
	c.delta = 0
	c.frame = 0
	c.start = time.Time{}
	c.last = time.Time{}
}
