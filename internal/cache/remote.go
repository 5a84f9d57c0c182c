// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package cache

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/headlines/internal/logging"
	"github.com/tomtom215/headlines/internal/metrics"
	"github.com/tomtom215/headlines/internal/upstream"
)

// scanBatch is the COUNT hint sent with each SCAN page.
const scanBatch = 200

// maxScanPages bounds a single DeletePrefix walk.
const maxScanPages = 500

// RemoteConfig configures a RemoteStore.
type RemoteConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// RemoteStore talks to an Upstash-compatible REST endpoint. Every command is
// POSTed as a JSON array to the base URL, so keys never pass through the URL
// path. Values are stored base64-encoded since JSON strings cannot carry
// invalid UTF-8.
type RemoteStore struct {
	baseURL string
	header  http.Header
	client  *upstream.Client
	logger  zerolog.Logger
}

type remoteReply struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

// NewRemoteStore creates a RemoteStore.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRemoteStore(cfg RemoteConfig, logger zerolog.Logger) *RemoteStore {
	return &RemoteStore{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		header:  http.Header{"Authorization": {"Bearer " + cfg.Token}},
		client: upstream.NewClient(upstream.ClientConfig{
			Name:    "cache-remote",
			Timeout: cfg.Timeout,
		}),
		logger: logging.Component(logger, "cache").With().Str("backend", BackendRemote).Logger(),
	}
}

// Name implements Store.
func (s *RemoteStore) Name() string { return BackendRemote }

// command runs one command and returns its raw result.
func (s *RemoteStore) command(ctx context.Context, args ...string) (json.RawMessage, error) {
	var reply remoteReply
	if err := s.client.PostJSON(ctx, s.baseURL, s.header, args, &reply); err != nil {
		return nil, err
	}
	if reply.Error != "" {
		return nil, errors.New(reply.Error)
	}
	return reply.Result, nil
}

func (s *RemoteStore) fail(op string, err error) {
	metrics.CacheErrors.WithLabelValues(BackendRemote, op).Inc()
	s.logger.Warn().Err(err).Str("operation", op).Msg("Remote cache unavailable")
}

// Get implements Store.
func (s *RemoteStore) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := s.command(ctx, "GET", key)
	if err != nil {
		s.fail("get", err)
		metrics.CacheMisses.WithLabelValues(BackendRemote).Inc()
		return nil, false
	}

	var value *string
	if err := json.Unmarshal(raw, &value); err != nil || value == nil {
		if err != nil {
			s.fail("get", fmt.Errorf("decode result: %w", err))
		}
		metrics.CacheMisses.WithLabelValues(BackendRemote).Inc()
		return nil, false
	}

	data, err := base64.StdEncoding.DecodeString(*value)
	if err != nil {
		s.fail("get", fmt.Errorf("decode value: %w", err))
		metrics.CacheMisses.WithLabelValues(BackendRemote).Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues(BackendRemote).Inc()
	return data, true
}

// Set implements Store. TTLs are rounded up to whole seconds.
func (s *RemoteStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	seconds := int64((ttl + time.Second - 1) / time.Second)

	if _, err := s.command(ctx, "SET", key, base64.StdEncoding.EncodeToString(value), "EX", strconv.FormatInt(seconds, 10)); err != nil {
		s.fail("set", err)
		return false
	}
	return true
}

// Delete implements Store.
func (s *RemoteStore) Delete(ctx context.Context, keys ...string) int {
	if len(keys) == 0 {
		return 0
	}
	raw, err := s.command(ctx, append([]string{"DEL"}, keys...)...)
	if err != nil {
		s.fail("delete", err)
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		s.fail("delete", fmt.Errorf("decode result: %w", err))
		return 0
	}
	return n
}

// DeletePrefix implements Store using SCAN MATCH followed by DEL per page.
func (s *RemoteStore) DeletePrefix(ctx context.Context, prefix string) int {
	pattern := escapeGlob(prefix) + "*"
	cursor := "0"
	removed := 0

	for page := 0; page < maxScanPages; page++ {
		raw, err := s.command(ctx, "SCAN", cursor, "MATCH", pattern, "COUNT", strconv.Itoa(scanBatch))
		if err != nil {
			s.fail("scan", err)
			return removed
		}

		next, keys, err := decodeScan(raw)
		if err != nil {
			s.fail("scan", err)
			return removed
		}
		if len(keys) > 0 {
			removed += s.Delete(ctx, keys...)
		}
		if next == "0" {
			return removed
		}
		cursor = next
	}

	s.logger.Warn().Str("prefix", prefix).Int("removed", removed).Msg("Prefix scan stopped at page limit")
	return removed
}

// decodeScan parses a SCAN reply: [cursor, [key, ...]]. The cursor may be
// encoded as a string or a number.
func decodeScan(raw json.RawMessage) (string, []string, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil || len(parts) != 2 {
		return "", nil, fmt.Errorf("malformed SCAN reply: %s", string(raw))
	}

	var cursor string
	if err := json.Unmarshal(parts[0], &cursor); err != nil {
		var n int64
		if err := json.Unmarshal(parts[0], &n); err != nil {
			return "", nil, fmt.Errorf("malformed SCAN cursor: %s", string(parts[0]))
		}
		cursor = strconv.FormatInt(n, 10)
	}

	var keys []string
	if err := json.Unmarshal(parts[1], &keys); err != nil {
		return "", nil, fmt.Errorf("malformed SCAN keys: %w", err)
	}
	return cursor, keys, nil
}

// escapeGlob escapes the characters SCAN MATCH treats as pattern syntax.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
