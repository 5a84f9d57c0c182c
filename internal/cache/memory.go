// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/headlines/internal/metrics"
)

// DefaultCapacity is used when NewMemoryStore is given a non-positive capacity.
const DefaultCapacity = 10000

type lruEntry struct {
	key       string
	value     []byte
	prev      *lruEntry
	next      *lruEntry
	expiresAt time.Time
}

// MemoryStore is a thread-safe LRU cache with per-key TTL.
//
//   - O(1) Get, Set, Delete and eviction
//   - expired entries are dropped when read, there is no background sweep
//   - the least recently used entry is evicted once capacity is exceeded
//
// A doubly-linked list orders entries by recency; a map indexes them by key.
type MemoryStore struct {
	mu sync.Mutex

	capacity int
	items    map[string]*lruEntry

	// head.next is the most recently used, tail.prev the least
	head *lruEntry
	tail *lruEntry

	now func() time.Time

	hits   int64
	misses int64
}

// NewMemoryStore creates an in-process cache holding at most capacity entries.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	c := &MemoryStore{
		capacity: capacity,
		items:    make(map[string]*lruEntry),
		head:     &lruEntry{},
		tail:     &lruEntry{},
		now:      time.Now,
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Name implements Store.
func (c *MemoryStore) Name() string { return BackendMemory }

// Get implements Store. Found entries become most recently used.
func (c *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.items[key]
	if !exists {
		c.misses++
		metrics.CacheMisses.WithLabelValues(BackendMemory).Inc()
		return nil, false
	}

	if !c.now().Before(entry.expiresAt) {
		c.removeEntry(entry)
		c.misses++
		metrics.CacheMisses.WithLabelValues(BackendMemory).Inc()
		metrics.CacheEvictions.WithLabelValues(BackendMemory, "expired").Inc()
		return nil, false
	}

	c.moveToFront(entry)
	c.hits++
	metrics.CacheHits.WithLabelValues(BackendMemory).Inc()
	return entry.value, true
}

// Set implements Store. A non-positive ttl stores nothing.
func (c *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(ttl)
	stored := append([]byte(nil), value...)

	if entry, exists := c.items[key]; exists {
		entry.value = stored
		entry.expiresAt = expiresAt
		c.moveToFront(entry)
		return true
	}

	entry := &lruEntry{key: key, value: stored, expiresAt: expiresAt}
	c.addToFront(entry)
	c.items[key] = entry

	for len(c.items) > c.capacity {
		c.evictOldest()
	}
	return true
}

// Delete implements Store.
func (c *MemoryStore) Delete(_ context.Context, keys ...string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, key := range keys {
		if entry, exists := c.items[key]; exists {
			c.removeEntry(entry)
			removed++
		}
	}
	return removed
}

// DeletePrefix implements Store.
func (c *MemoryStore) DeletePrefix(_ context.Context, prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.items {
		if strings.HasPrefix(key, prefix) {
			c.removeEntry(entry)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries, including expired ones not yet read.
func (c *MemoryStore) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats returns hit/miss counts and the current size.
func (c *MemoryStore) Stats() (hits, misses int64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, len(c.items)
}

// Internal methods (must be called with lock held)

func (c *MemoryStore) addToFront(entry *lruEntry) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

func (c *MemoryStore) moveToFront(entry *lruEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	c.addToFront(entry)
}

func (c *MemoryStore) removeEntry(entry *lruEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	delete(c.items, entry.key)
}

func (c *MemoryStore) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}
	c.removeEntry(oldest)
	metrics.CacheEvictions.WithLabelValues(BackendMemory, "capacity").Inc()
}
