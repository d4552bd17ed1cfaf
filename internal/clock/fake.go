package clock

import "time"

// FakeClock is a Clock pinned to a programmable instant, so period windows
// derived from it stay stable across a test.
type FakeClock struct {
	now time.Time
}

// NewFakeClock pins the clock at t, normalized to UTC.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// Set repins the clock at t.
func (c *FakeClock) Set(t time.Time) {
	c.now = t.UTC()
}
