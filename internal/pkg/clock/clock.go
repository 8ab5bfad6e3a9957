// Package clock provides the wall-clock source for the host runtime.
package clock

import (
	"sync"
	"time"
)

// Clock provides time functionality.
type Clock interface {
	Now() time.Time
}

// Real implements Clock using actual system time.
type Real struct{}

// Now returns the current time.
func (c *Real) Now() time.Time {
	return time.Now()
}

// New returns a new real clock.
func New() Clock {
	return &Real{}
}

// Fixed is a manually advanced Clock for tests and offline tools.
// It is safe for concurrent use.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixed returns a Fixed clock reading t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{now: t}
}

// Now returns the current fixed time.
func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Millis returns c.Now() as milliseconds since the Unix epoch, the engine's
// timestamp unit.
func Millis(c Clock) int64 {
	return c.Now().UnixMilli()
}
