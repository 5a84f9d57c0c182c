// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	runIDKey
)

// NewID returns a random id for an API request or a background run.
func NewID() string {
	return uuid.NewString()
}

// WithRequestID tags ctx with the id of the API request it serves.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request id in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithRunID tags ctx with the id of one background run, such as an ingest
// pass.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunID returns the run id in ctx, or "".
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// From returns base with the request_id and run_id carried by ctx.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func From(ctx context.Context, base zerolog.Logger) zerolog.Logger {
	requestID, runID := RequestID(ctx), RunID(ctx)
	if requestID == "" && runID == "" {
		return base
	}
	c := base.With()
	if requestID != "" {
		c = c.Str("request_id", requestID)
	}
	if runID != "" {
		c = c.Str("run_id", runID)
	}
	return c.Logger()
}

// Ctx is From applied to the process logger.
func Ctx(ctx context.Context) *zerolog.Logger {
	l := From(ctx, Logger())
	return &l
}
