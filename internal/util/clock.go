package util

import (
	"sync"
	"time"
)

// Clock supplies the current time to code that stamps records.
type Clock interface {
	NowUtc() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

// NewRealClock returns the Clock used outside tests.
func NewRealClock() *RealClock {
	return &RealClock{}
}

// NowUtc returns the current system time in UTC.
func (c *RealClock) NowUtc() time.Time {
	return time.Now().UTC()
}

// StubClock is a settable Clock for tests.
type StubClock struct {
	now  time.Time
	lock sync.Mutex
}

// NewStubClock returns a StubClock frozen at now, converted to UTC.
func NewStubClock(now time.Time) *StubClock {
	return &StubClock{now: now.UTC()}
}

// NowUtc returns the stubbed time.
func (c *StubClock) NowUtc() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

// Advance moves the clock forward by d and returns the new time.
func (c *StubClock) Advance(d time.Duration) time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = c.now.Add(d)
	return c.now
}
