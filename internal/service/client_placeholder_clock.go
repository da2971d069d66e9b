package service

import (
	"sync"
	"time"
)

// PlaceholderClock hands out negative ids for entities created while the
// server is unreachable. Ids are derived from the wall clock in microseconds
// and strictly decrease, so they never collide even when two calls land in
// the same microsecond or the clock moves backwards.
type PlaceholderClock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewPlaceholderClock returns a clock whose ids are all below floor. Pass the
// smallest id already present in the local store so placeholders created by
// an earlier run are never reused.
func NewPlaceholderClock(floor int64) *PlaceholderClock {
	return newPlaceholderClock(floor, time.Now)
}

func newPlaceholderClock(floor int64, now func() time.Time) *PlaceholderClock {
	return &PlaceholderClock{last: min(floor, 0), now: now}
}

// Next returns a fresh placeholder id. It is always negative.
func (c *PlaceholderClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := -c.now().UnixMicro()
	if id >= c.last {
		id = c.last - 1
	}
	c.last = id
	return id
}
