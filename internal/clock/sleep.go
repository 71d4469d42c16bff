// Package clock provides helpers for time-related operations.
package clock

import (
	"context"
	"sync"
	"time"
)

// SleepWithContext waits for the duration or returns early if the context is canceled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Clamped wraps a time source and never reports a time earlier than one it
// already returned.
type Clamped struct {
	mu     sync.Mutex
	source func() time.Time
	max    time.Time
}

// NewClamped constructs a Clamped clock. A nil source means time.Now.
func NewClamped(source func() time.Time) *Clamped {
	if source == nil {
		source = time.Now
	}
	return &Clamped{source: source}
}

// Now returns max(source(), every previously returned value).
func (c *Clamped) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.source()
	if now.Before(c.max) {
		return c.max
	}
	c.max = now
	return now
}

// Manual is a settable time source for tests and replays.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual returns a Manual clock set to t.
func NewManual(t time.Time) *Manual {
	return &Manual{now: t}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to t, backwards included.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}
