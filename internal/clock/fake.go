package clock

import (
	"sync"
	"time"
)

// FakeClock is a manually advanced clock for tests. It is safe to read from
// goroutines spawned by the code under test (publish fan-out reads the clock
// off the request goroutine).
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
