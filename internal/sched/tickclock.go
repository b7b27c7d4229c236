// internal/sched/tickclock.go

package sched

import (
	"sync/atomic"
)

// TickClock counts consumed quantum units atomically. Time in the scheduler
// is logical: one tick per Yield.
type TickClock struct {
	count atomic.Int64
}

// Advance records one consumed unit and returns the new count.
func (c *TickClock) Advance() int64 {
	return c.count.Add(1)
}

// Reset sets the count back to zero.
func (c *TickClock) Reset() {
	c.count.Store(0)
}

// Count returns the current tick count atomically.
func (c *TickClock) Count() int64 {
	return c.count.Load()
}
