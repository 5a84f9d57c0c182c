// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/headlines/internal/upstream"
)

// Options configures an HTTP-backed adapter.
type Options struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	Breaker           *upstream.BreakerSettings
	HTTPClient        *http.Client
}

// adapter holds what every HTTP-backed provider shares.
type adapter struct {
	name    string
	baseURL string
	apiKey  string
	client  *upstream.Client
	now     func() time.Time
}

func newAdapter(name string, opts Options) adapter {
	return adapter{
		name:    name,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		client: upstream.NewClient(upstream.ClientConfig{
			Name:              "provider-" + name,
			Timeout:           opts.Timeout,
			RequestsPerSecond: opts.RequestsPerSecond,
			Burst:             opts.Burst,
			Breaker:           opts.Breaker,
			HTTPClient:        opts.HTTPClient,
		}),
		now: time.Now,
	}
}

// Name returns the provider name.
func (a *adapter) Name() string { return a.name }

// CircuitOpen reports whether the adapter's breaker is rejecting calls.
func (a *adapter) CircuitOpen() bool { return a.client.Breaker().Open() }

// getJSON wraps transport errors in ErrUnavailable.
func (a *adapter) getJSON(ctx context.Context, reqURL string, header http.Header, out any) error {
	if err := a.client.GetJSON(ctx, reqURL, header, out); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnavailable, a.name, err)
	}
	return nil
}
