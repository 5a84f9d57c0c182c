// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestMemoryStore(capacity int) (*MemoryStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(capacity)
	s.now = clock.Now
	return s, clock
}

func TestMemoryStore_SetGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestMemoryStore(10)

	if !s.Set(ctx, "article:1", []byte(`{"id":"1"}`), time.Hour) {
		t.Fatal("Set() = false")
	}
	got, ok := s.Get(ctx, "article:1")
	if !ok || string(got) != `{"id":"1"}` {
		t.Errorf("Get() = %q, %v", got, ok)
	}
	if _, ok := s.Get(ctx, "article:2"); ok {
		t.Error("Get() of unknown key should miss")
	}
}

func TestMemoryStore_ExpiresLazily(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, clock := newTestMemoryStore(10)

	s.Set(ctx, "k", []byte("v"), 30*time.Second)
	clock.Advance(29 * time.Second)
	if _, ok := s.Get(ctx, "k"); !ok {
		t.Fatal("entry expired early")
	}

	clock.Advance(time.Second)
	if s.Len() != 1 {
		t.Fatalf("Len() = %d before read, want 1 (no background sweep)", s.Len())
	}
	if _, ok := s.Get(ctx, "k"); ok {
		t.Error("entry should be expired at ttl")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after expired read, want 0", s.Len())
	}
}

func TestMemoryStore_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestMemoryStore(3)

	for i := 1; i <= 3; i++ {
		s.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), time.Hour)
	}
	// touch k1 so k2 becomes the oldest
	s.Get(ctx, "k1")
	s.Set(ctx, "k4", []byte("v"), time.Hour)

	if _, ok := s.Get(ctx, "k2"); ok {
		t.Error("k2 should have been evicted")
	}
	for _, k := range []string{"k1", "k3", "k4"} {
		if _, ok := s.Get(ctx, k); !ok {
			t.Errorf("%s should still be cached", k)
		}
	}
}

func TestMemoryStore_DeleteAndPrefix(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestMemoryStore(100)

	s.Set(ctx, "collaborative_recommendations:u1:5", []byte("a"), time.Hour)
	s.Set(ctx, "collaborative_recommendations:u1:10", []byte("b"), time.Hour)
	s.Set(ctx, "collaborative_recommendations:u10:5", []byte("c"), time.Hour)
	s.Set(ctx, "article:1", []byte("d"), time.Hour)

	if n := s.DeletePrefix(ctx, "collaborative_recommendations:u1:"); n != 2 {
		t.Errorf("DeletePrefix() = %d, want 2", n)
	}
	if _, ok := s.Get(ctx, "collaborative_recommendations:u10:5"); !ok {
		t.Error("u10 entry must survive u1 eviction")
	}
	if n := s.Delete(ctx, "article:1", "missing"); n != 1 {
		t.Errorf("Delete() = %d, want 1", n)
	}
}

func TestMemoryStore_NonPositiveTTL(t *testing.T) {
	t.Parallel()
	s, _ := newTestMemoryStore(10)
	if s.Set(context.Background(), "k", []byte("v"), 0) {
		t.Error("Set() with zero ttl should not store")
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore(50)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*200+i)%75)
				s.Set(ctx, key, []byte("v"), time.Minute)
				s.Get(ctx, key)
				if i%17 == 0 {
					s.DeletePrefix(ctx, "k1")
				}
			}
		}(g)
	}
	wg.Wait()

	if s.Len() > 50 {
		t.Errorf("Len() = %d exceeds capacity", s.Len())
	}
}
