package transition

import (
	"sync"
	"time"
)

// Clock reports time elapsed since a session started.
type Clock interface {
	Now() time.Duration
}

// ManualClock only moves when told to. Scripted sessions use it.
type ManualClock struct {
	mu  sync.Mutex
	now time.Duration
}

// Now returns the current time.
func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t. Moving backwards is ignored.
func (c *ManualClock) Set(t time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t > c.now {
		c.now = t
	}
}

// WallClock follows real time from its creation.
type WallClock struct {
	start time.Time
}

// NewWallClock starts a clock at zero.
func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

// Now returns the time since the clock was created.
func (c *WallClock) Now() time.Duration {
	return time.Since(c.start)
}
