// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/headlines/internal/logging"
	"github.com/tomtom215/headlines/internal/metrics"
)

// BadgerStore is a persistent local cache on BadgerDB. Entry expiry uses
// Badger's native TTL, so expired keys are invisible to reads and reclaimed
// during compaction.
type BadgerStore struct {
	db     *badger.DB
	logger zerolog.Logger
}

// OpenBadgerStore opens (or creates) a Badger cache at path. An empty path
// opens an in-memory database.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func OpenBadgerStore(path string, logger zerolog.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}
	return NewBadgerStore(db, logger), nil
}

// NewBadgerStore wraps an already opened Badger database.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewBadgerStore(db *badger.DB, logger zerolog.Logger) *BadgerStore {
	return &BadgerStore{
		db:     db,
		logger: logging.Component(logger, "cache").With().Str("backend", BackendBadger).Logger(),
	}
}

// Name implements Store.
func (s *BadgerStore) Name() string { return BackendBadger }

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) fail(op string, err error) {
	metrics.CacheErrors.WithLabelValues(BackendBadger, op).Inc()
	s.logger.Warn().Err(err).Str("operation", op).Msg("Badger cache error")
}

// Get implements Store.
func (s *BadgerStore) Get(_ context.Context, key string) ([]byte, bool) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})

	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			s.fail("get", err)
		}
		metrics.CacheMisses.WithLabelValues(BackendBadger).Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues(BackendBadger).Inc()
	return value, true
}

// Set implements Store.
func (s *BadgerStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry([]byte(key), value).WithTTL(ttl))
	})
	if err != nil {
		s.fail("set", err)
		return false
	}
	return true
}

// Delete implements Store.
func (s *BadgerStore) Delete(_ context.Context, keys ...string) int {
	removed := 0
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if _, err := txn.Get([]byte(key)); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue
				}
				return err
			}
			if err := txn.Delete([]byte(key)); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		s.fail("delete", err)
		return 0
	}
	return removed
}

// DeletePrefix implements Store.
func (s *BadgerStore) DeletePrefix(ctx context.Context, prefix string) int {
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		s.fail("scan", err)
		return 0
	}
	if len(keys) == 0 {
		return 0
	}
	return s.Delete(ctx, keys...)
}
