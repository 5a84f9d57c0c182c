// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultComputeTimeout bounds a shared computation once it no longer
// belongs to any single caller.
const DefaultComputeTimeout = 30 * time.Second

// Loader collapses concurrent misses on the same key into one computation.
//
// The computation runs detached from the callers' cancellation, so a caller
// with a short deadline neither cancels the work for the others nor leaks
// its deadline to them. Each caller still stops waiting when its own
// context ends.
type Loader struct {
	store   Store
	group   singleflight.Group
	timeout time.Duration

	mu          sync.Mutex
	epoch       uint64
	inflight    map[uint64]int    // start epoch -> running computations
	invalidated map[string]uint64 // prefix -> epoch of its last invalidation
}

// NewLoader wraps store.
func NewLoader(store Store) *Loader {
	return &Loader{
		store:       store,
		timeout:     DefaultComputeTimeout,
		inflight:    make(map[uint64]int),
		invalidated: make(map[string]uint64),
	}
}

// Store returns the wrapped store.
func (l *Loader) Store() Store { return l.store }

// Load returns the cached value for key, or runs compute once for all
// concurrent callers and caches a successful result for ttl. cached reports
// whether the value came from the cache. Errors from compute are not cached,
// and neither are results whose computation called SkipStore or whose key
// was invalidated while compute ran.
func Load[T any](ctx context.Context, l *Loader, key string, ttl time.Duration, compute func(context.Context) (T, error)) (value T, cached bool, err error) {
	if err := ctx.Err(); err != nil {
		return value, false, err
	}
	if v, ok := GetJSON[T](ctx, l.store, key); ok {
		return v, true, nil
	}

	ch := l.group.DoChan(key, func() (any, error) {
		return l.run(ctx, key, ttl, func(ctx context.Context) (any, error) {
			v, err := compute(ctx)
			return v, err
		})
	})

	select {
	case <-ctx.Done():
		return value, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return value, false, res.Err
		}
		typed, _ := res.Val.(T)
		return typed, false, nil
	}
}

func (l *Loader) run(ctx context.Context, key string, ttl time.Duration, compute func(context.Context) (any, error)) (any, error) {
	epoch := l.begin()
	defer l.end(epoch)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
	defer cancel()
	skip := new(atomic.Bool)
	ctx = context.WithValue(ctx, skipStoreKey{}, skip)

	v, err := compute(ctx)
	if err != nil {
		return v, err
	}
	if skip.Load() || l.invalidatedSince(key, epoch) {
		return v, nil
	}
	SetJSON(ctx, l.store, key, v, ttl)
	// An invalidation that raced the write above must still win.
	if l.invalidatedSince(key, epoch) {
		l.store.Delete(ctx, key)
	}
	return v, nil
}

type skipStoreKey struct{}

// SkipStore marks the computation running under ctx as not cacheable. The
// result is still returned to every waiting caller. Outside a Load
// computation it does nothing.
func SkipStore(ctx context.Context) {
	if skip, ok := ctx.Value(skipStoreKey{}).(*atomic.Bool); ok {
		skip.Store(true)
	}
}

// Invalidate removes every cached key under prefixes and prevents
// computations already running from caching results under them. It returns
// the number of keys removed.
func (l *Loader) Invalidate(ctx context.Context, prefixes ...string) int {
	l.mu.Lock()
	l.epoch++
	if len(l.inflight) > 0 {
		for _, p := range prefixes {
			l.invalidated[p] = l.epoch
		}
	}
	l.mu.Unlock()

	removed := 0
	for _, p := range prefixes {
		removed += l.store.DeletePrefix(ctx, p)
	}
	return removed
}

func (l *Loader) begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inflight[l.epoch]++
	return l.epoch
}

func (l *Loader) end(epoch uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inflight[epoch]--; l.inflight[epoch] <= 0 {
		delete(l.inflight, epoch)
	}

	// Invalidations older than every running computation can no longer
	// affect one.
	oldest, running := uint64(0), false
	for e := range l.inflight {
		if !running || e < oldest {
			oldest, running = e, true
		}
	}
	for p, e := range l.invalidated {
		if !running || e <= oldest {
			delete(l.invalidated, p)
		}
	}
}

func (l *Loader) invalidatedSince(key string, epoch uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for p, e := range l.invalidated {
		if e > epoch && strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}
