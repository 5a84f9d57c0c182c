// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

// Package quota tracks per-provider API call budgets.
//
// Each Counter owns a fixed window that starts with the first call. Once the
// window has elapsed the next call resets the counter before it is checked;
// there is no background timer.
package quota

import (
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/headlines/internal/metrics"
)

// DefaultWindow is the quota period used when none is configured.
const DefaultWindow = 24 * time.Hour

// Counter is one provider's call budget.
type Counter struct {
	mu          sync.Mutex
	name        string
	limit       int
	window      time.Duration
	calls       int
	windowStart time.Time
	now         func() time.Time
}

// Status is a point-in-time copy of a Counter.
type Status struct {
	Name      string
	Calls     int
	Limit     int
	Remaining int
	ResetsAt  time.Time // zero until the first call opens a window
}

// NewCounter creates a counter allowing limit calls per window.
func NewCounter(name string, limit int, window time.Duration) *Counter {
	if window <= 0 {
		window = DefaultWindow
	}
	c := &Counter{name: name, limit: limit, window: window, now: time.Now}
	metrics.QuotaRemaining.WithLabelValues(name).Set(float64(limit))
	return c
}

// Name returns the provider name.
func (c *Counter) Name() string { return c.name }

// Allow reserves one call. It returns false, without counting, when the
// window's budget is spent.
func (c *Counter) Allow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rollLocked()
	if c.calls >= c.limit {
		return false
	}
	if c.windowStart.IsZero() {
		c.windowStart = c.now()
	}
	c.calls++
	metrics.QuotaRemaining.WithLabelValues(c.name).Set(float64(c.limit - c.calls))
	return true
}

// Exhausted reports whether the next Allow would fail.
func (c *Counter) Exhausted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rollLocked()
	return c.calls >= c.limit
}

// Reset clears the counter and closes its window.
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = 0
	c.windowStart = time.Time{}
	metrics.QuotaRemaining.WithLabelValues(c.name).Set(float64(c.limit))
}

// Status returns a snapshot of the counter.
func (c *Counter) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rollLocked()

	s := Status{Name: c.name, Calls: c.calls, Limit: c.limit, Remaining: c.limit - c.calls}
	if s.Remaining < 0 {
		s.Remaining = 0
	}
	if !c.windowStart.IsZero() {
		s.ResetsAt = c.windowStart.Add(c.window)
	}
	return s
}

// rollLocked starts a fresh window if the current one has elapsed.
func (c *Counter) rollLocked() {
	if c.windowStart.IsZero() {
		return
	}
	if c.now().Sub(c.windowStart) >= c.window {
		c.calls = 0
		c.windowStart = time.Time{}
		metrics.QuotaRemaining.WithLabelValues(c.name).Set(float64(c.limit))
	}
}

// Tracker holds the counters for every registered provider.
type Tracker struct {
	mu       sync.RWMutex
	window   time.Duration
	counters map[string]*Counter
}

// NewTracker creates a tracker whose counters share window.
func NewTracker(window time.Duration) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{window: window, counters: make(map[string]*Counter)}
}

// Register returns the counter for name, creating it with limit if needed.
func (t *Tracker) Register(name string, limit int) *Counter {
	t.mu.Lock()
	defer t.mu.Unlock()

	if c, ok := t.counters[name]; ok {
		return c
	}
	c := NewCounter(name, limit, t.window)
	t.counters[name] = c
	return c
}

// Counter returns the named counter.
func (t *Tracker) Counter(name string) (*Counter, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.counters[name]
	return c, ok
}

// Snapshot returns the status of every counter ordered by name.
func (t *Tracker) Snapshot() []Status {
	t.mu.RLock()
	counters := make([]*Counter, 0, len(t.counters))
	for _, c := range t.counters {
		counters = append(counters, c)
	}
	t.mu.RUnlock()

	out := make([]Status, 0, len(counters))
	for _, c := range counters {
		out = append(out, c.Status())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
