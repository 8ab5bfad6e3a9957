package gameserver

import (
	"context"
	"sort"
	"sync"
	"time"
)

// TickManager drives registered callbacks on a fixed interval. Callbacks run
// sequentially on the manager's goroutine in name order.
//
// Invariant: a callback never runs concurrently with itself.
type TickManager struct {
	interval time.Duration
	mu       sync.Mutex
	ticks    map[string]func(time.Time)
}

// NewTickManager returns a manager that fires every interval.
//
// Precondition: interval must be > 0.
func NewTickManager(interval time.Duration) *TickManager {
	if interval <= 0 {
		panic("gameserver.NewTickManager: interval must be > 0")
	}
	return &TickManager{
		interval: interval,
		ticks:    make(map[string]func(time.Time)),
	}
}

// Interval reports the configured tick interval.
func (m *TickManager) Interval() time.Duration { return m.interval }

// Register installs fn under name, replacing any existing callback.
func (m *TickManager) Register(name string, fn func(time.Time)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticks[name] = fn
}

// Unregister removes the callback under name.
func (m *TickManager) Unregister(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ticks, name)
}

// Fire invokes every registered callback once with at.
func (m *TickManager) Fire(at time.Time) {
	m.mu.Lock()
	names := make([]string, 0, len(m.ticks))
	for name := range m.ticks {
		names = append(names, name)
	}
	sort.Strings(names)
	callbacks := make([]func(time.Time), len(names))
	for i, name := range names {
		callbacks[i] = m.ticks[name]
	}
	m.mu.Unlock()
	for _, fn := range callbacks {
		fn(at)
	}
}

// Start runs the tick loop until ctx is cancelled.
//
// Postcondition: the returned channel is closed once the loop has exited and
// no callback is running.
func (m *TickManager) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case at := <-ticker.C:
				m.Fire(at)
			}
		}
	}()
	return done
}
