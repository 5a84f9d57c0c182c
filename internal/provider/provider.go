// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

// Package provider fetches articles from the upstream news services and
// merges them into a single page.
//
// Each upstream service is wrapped in an adapter implementing Provider. The
// adapters normalize provider-native records into models.Article; the
// Aggregator walks them in a fixed priority order, honors per-provider call
// quotas and circuit breakers, deduplicates by URL and falls back to a static
// demo set when nothing answered.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/headlines/internal/models"
)

// Provider names, in aggregation priority order.
const (
	NameNewsAPI    = "newsapi"
	NameGNews      = "gnews"
	NameNYTimes    = "nytimes"
	NameDuckDuckGo = "duckduckgo"
	NameRSS        = "rss"
)

// Operation labels used in logs and metrics.
const (
	OpSearch    = "search"
	OpHeadlines = "headlines"
)

var (
	// ErrUnavailable is returned when a provider cannot serve a request.
	ErrUnavailable = errors.New("provider unavailable")

	// ErrQuotaExhausted is returned when a provider's call quota is spent
	// for the current window.
	ErrQuotaExhausted = fmt.Errorf("%w: quota exhausted", ErrUnavailable)

	// ErrMalformedResponse marks a provider record or payload that could not
	// be normalized. Malformed records are skipped.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrNotSupported is returned by adapters for operations the upstream
	// service does not offer.
	ErrNotSupported = fmt.Errorf("%w: operation not supported", ErrUnavailable)
)

// Query describes one fetch. Text drives search, Category drives headlines.
// PageSize is the number of articles wanted from this provider.
type Query struct {
	Text     string
	Category string
	Page     int
	PageSize int
}

// Result is what a single provider returned.
// TotalResults is the provider's own total when it reports one, otherwise
// the number of articles returned.
type Result struct {
	Articles     []models.Article
	TotalResults int
}

// Provider is an upstream news source.
type Provider interface {
	Name() string
	Search(ctx context.Context, q Query) (Result, error)
	Headlines(ctx context.Context, q Query) (Result, error)
}

// circuitReporter is implemented by adapters backed by an upstream.Client.
type circuitReporter interface {
	CircuitOpen() bool
}
