// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

// Package cache is the TTL key/value layer in front of the providers, the
// datastore and the recommendation engine.
//
// Three backends implement Store:
//
//   - RemoteStore: an Upstash-style REST key/value service (URL + bearer token)
//   - MemoryStore: a bounded in-process LRU with per-key TTL, lazily expired
//   - BadgerStore: an embedded BadgerDB with native entry TTLs
//
// Cache failures never reach callers. Every backend error is logged, counted
// and reported as a miss (Get), false (Set) or zero (Delete).
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/headlines/internal/config"
)

// Store is a TTL key/value cache.
type Store interface {
	// Get returns the stored value, or false on a miss or backend error.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key for ttl. It reports whether the write landed.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool

	// Delete removes keys and returns how many existed.
	Delete(ctx context.Context, keys ...string) int

	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) int

	// Name identifies the backend in logs and metrics.
	Name() string
}

// Backend names accepted by New.
const (
	BackendAuto   = "auto"
	BackendRemote = "remote"
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// New builds the Store selected by cfg. "auto" picks the remote backend when
// its URL and token are configured and the memory backend otherwise.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg *config.CacheConfig, logger zerolog.Logger) (Store, error) {
	backend := cfg.Backend
	if backend == "" || backend == BackendAuto {
		backend = BackendMemory
		if cfg.RemoteCacheConfigured() {
			backend = BackendRemote
		}
	}

	switch backend {
	case BackendRemote:
		return NewRemoteStore(RemoteConfig{
			URL:     cfg.RemoteURL,
			Token:   cfg.RemoteToken,
			Timeout: cfg.Timeout,
		}, logger), nil
	case BackendBadger:
		return OpenBadgerStore(cfg.BadgerPath, logger)
	case BackendMemory:
		return NewMemoryStore(cfg.Capacity), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Verify interface implementations at compile time
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RemoteStore)(nil)
	_ Store = (*BadgerStore)(nil)
)
