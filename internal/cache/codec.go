// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package cache

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/headlines/internal/logging"
)

// SetJSON encodes v as JSON and stores it.
func SetJSON(ctx context.Context, s Store, key string, v any, ttl time.Duration) bool {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Cache value not encodable")
		return false
	}
	return s.Set(ctx, key, data, ttl)
}

// GetJSON decodes the value stored under key into T. When the payload is not
// valid JSON for T and T is a string, []byte or json.RawMessage, the raw
// payload is returned instead. Any other undecodable payload is a miss.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool) {
	var out T
	data, ok := s.Get(ctx, key)
	if !ok {
		return out, false
	}
	err := json.Unmarshal(data, &out)
	if err == nil {
		return out, true
	}

	switch raw := any(&out).(type) {
	case *string:
		*raw = string(data)
		return out, true
	case *[]byte:
		*raw = data
		return out, true
	case *json.RawMessage:
		*raw = data
		return out, true
	}

	logging.Ctx(ctx).Debug().Err(err).Str("key", key).Msg("Cached value did not decode")
	var zero T
	return zero, false
}
