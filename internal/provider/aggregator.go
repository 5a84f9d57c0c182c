// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package provider

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/headlines/internal/config"
	"github.com/tomtom215/headlines/internal/logging"
	"github.com/tomtom215/headlines/internal/metrics"
	"github.com/tomtom215/headlines/internal/models"
	"github.com/tomtom215/headlines/internal/quota"
)

// DefaultCallTimeout bounds a single provider call.
const DefaultCallTimeout = 10 * time.Second

type registered struct {
	provider Provider
	counter  *quota.Counter
}

// Aggregator merges results from the registered providers, in registration
// order, into a single deduplicated page.
type Aggregator struct {
	providers []registered
	tracker   *quota.Tracker
	timeout   time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAggregator creates an empty aggregator. Providers are tried in the order
// they are registered.
func NewAggregator(tracker *quota.Tracker, timeout time.Duration, logger zerolog.Logger) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &Aggregator{
		tracker: tracker,
		timeout: timeout,
		logger:  logging.Component(logger, "aggregator"),
		now:     time.Now,
	}
}

// Register appends p with the given call quota for the tracker's window.
func (a *Aggregator) Register(p Provider, limit int) {
	counter := a.tracker.Register(p.Name(), limit)
	a.providers = append(a.providers, registered{provider: p, counter: counter})
}

// Providers returns the registered provider names in priority order.
func (a *Aggregator) Providers() []string {
	names := make([]string, len(a.providers))
	for i, r := range a.providers {
		names[i] = r.provider.Name()
	}
	return names
}

// Quotas returns every provider's quota status.
func (a *Aggregator) Quotas() []quota.Status {
	return a.tracker.Snapshot()
}

// CircuitStates returns the breaker state of each HTTP-backed provider.
func (a *Aggregator) CircuitStates() map[string]bool {
	states := make(map[string]bool, len(a.providers))
	for _, r := range a.providers {
		if cr, ok := r.provider.(circuitReporter); ok {
			states[r.provider.Name()] = cr.CircuitOpen()
		}
	}
	return states
}

// Search fetches articles matching query.
func (a *Aggregator) Search(ctx context.Context, query string, page, pageSize int) (models.NewsPage, error) {
	q := Query{Text: query, Page: page, PageSize: pageSize}
	return a.fetch(ctx, OpSearch, q, func(ctx context.Context, p Provider, q Query) (Result, error) {
		return p.Search(ctx, q)
	})
}

// Trending fetches top headlines, optionally restricted to category.
func (a *Aggregator) Trending(ctx context.Context, category string, page, pageSize int) (models.NewsPage, error) {
	q := Query{Category: category, Page: page, PageSize: pageSize}
	return a.fetch(ctx, OpHeadlines, q, func(ctx context.Context, p Provider, q Query) (Result, error) {
		return p.Headlines(ctx, q)
	})
}

type callFunc func(ctx context.Context, p Provider, q Query) (Result, error)

func (a *Aggregator) fetch(ctx context.Context, op string, q Query, call callFunc) (models.NewsPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 10
	}

	seen := make(map[string]struct{}, q.PageSize)
	articles := make([]models.Article, 0, q.PageSize)
	total := 0

	for _, r := range a.providers {
		if len(articles) >= q.PageSize {
			break
		}
		if err := ctx.Err(); err != nil {
			return models.NewsPage{}, err
		}

		name := r.provider.Name()
		if cr, ok := r.provider.(circuitReporter); ok && cr.CircuitOpen() {
			metrics.RecordProviderSkipped(name, op)
			a.logger.Debug().Str("provider", name).Msg("Skipping provider with open circuit")
			continue
		}
		if !r.counter.Allow() {
			metrics.RecordProviderSkipped(name, op)
			a.logger.Debug().Str("provider", name).Msg("Skipping provider with exhausted quota")
			continue
		}

		pq := q
		pq.PageSize = q.PageSize - len(articles)
		res, err := a.callOne(ctx, r.provider, op, pq, call)
		if err != nil {
			a.logger.Warn().Err(err).Str("provider", name).Str("operation", op).Msg("Provider call failed")
			continue
		}

		added := 0
		for _, art := range res.Articles {
			if len(articles) >= q.PageSize {
				break
			}
			if _, dup := seen[art.URL]; dup {
				continue
			}
			seen[art.URL] = struct{}{}
			articles = append(articles, art)
			added++
		}
		metrics.ProviderArticles.WithLabelValues(name).Add(float64(added))

		// NewsAPI reports a real total; the others only add what they returned.
		if name == NameNewsAPI {
			total = res.TotalResults
		} else {
			total += len(res.Articles)
		}
	}

	if len(articles) == 0 {
		metrics.AggregatorFallbacks.Inc()
		a.logger.Warn().Str("operation", op).Msg("All providers failed or were skipped, serving demo articles")
		return DemoPage(a.now(), q.Text, q.Category, q.Page, q.PageSize), nil
	}

	return models.NewsPage{
		Articles:     articles,
		TotalResults: total,
		Page:         q.Page,
		PageSize:     q.PageSize,
	}, nil
}

func (a *Aggregator) callOne(ctx context.Context, p Provider, op string, q Query, call callFunc) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	res, err := call(ctx, p, q)
	metrics.RecordProviderCall(p.Name(), op, time.Since(start), err)
	return res, err
}

// FromConfig registers every provider cfg enables, in priority order:
// newsapi, gnews, nytimes, duckduckgo, rss. Keyed providers without a key are
// left out.
func FromConfig(cfg *config.ProvidersConfig, logger zerolog.Logger) *Aggregator {
	agg := NewAggregator(quota.NewTracker(cfg.QuotaWindow), cfg.Timeout, logger)

	opts := func(baseURL, key string) Options {
		return Options{
			BaseURL:           baseURL,
			APIKey:            key,
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
		}
	}

	if cfg.NewsAPIKey != "" {
		agg.Register(NewNewsAPI(opts(cfg.NewsAPIURL, cfg.NewsAPIKey)), cfg.NewsAPIQuota)
	}
	if cfg.GNewsKey != "" {
		agg.Register(NewGNews(opts(cfg.GNewsURL, cfg.GNewsKey)), cfg.GNewsQuota)
	}
	if cfg.NYTimesKey != "" {
		agg.Register(NewNYTimes(opts(cfg.NYTimesURL, cfg.NYTimesKey)), cfg.NYTimesQuota)
	}
	if cfg.DuckDuckGoEnabled {
		agg.Register(NewDuckDuckGo(opts(cfg.DuckDuckGoURL, "")), cfg.DuckDuckGoQuota)
	}
	if len(cfg.RSSFeeds) > 0 {
		agg.Register(NewRSS(cfg.RSSFeeds, opts("", "")), cfg.RSSQuota)
	}

	agg.logger.Info().Strs("providers", agg.Providers()).Msg("News providers registered")
	return agg
}
