// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package config

import (
	"fmt"
	"math"
	"net/url"
	"strings"
)

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	if err := c.validateProviders(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateEmbedding(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateIngest(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateProviders() error {
	p := &c.Providers
	for name, raw := range map[string]string{
		"NEWSAPI_URL":    p.NewsAPIURL,
		"GNEWS_URL":      p.GNewsURL,
		"NYTIMES_URL":    p.NYTimesURL,
		"DUCKDUCKGO_URL": p.DuckDuckGoURL,
	} {
		if err := validateHTTPURL(name, raw); err != nil {
			return err
		}
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive, got %v", p.Timeout)
	}
	if p.RequestsPerSecond <= 0 || p.Burst < 1 {
		return fmt.Errorf("PROVIDER_RPS and PROVIDER_BURST must be positive")
	}
	if p.QuotaWindow <= 0 {
		return fmt.Errorf("QUOTA_WINDOW must be positive, got %v", p.QuotaWindow)
	}
	for name, limit := range map[string]int{
		"NEWSAPI_QUOTA":    p.NewsAPIQuota,
		"GNEWS_QUOTA":      p.GNewsQuota,
		"NYTIMES_QUOTA":    p.NYTimesQuota,
		"DUCKDUCKGO_QUOTA": p.DuckDuckGoQuota,
		"RSS_QUOTA":        p.RSSQuota,
	} {
		if limit < 0 {
			return fmt.Errorf("%s must be >= 0, got %d", name, limit)
		}
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case "auto", "memory":
	case "remote":
		if !c.Cache.RemoteCacheConfigured() {
			return fmt.Errorf("UPSTASH_REDIS_REST_URL and UPSTASH_REDIS_REST_TOKEN are required when CACHE_BACKEND=remote")
		}
	case "badger":
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of auto, remote, memory, badger; got %q", c.Cache.Backend)
	}
	if c.Cache.RemoteURL != "" {
		if err := validateHTTPURL("UPSTASH_REDIS_REST_URL", c.Cache.RemoteURL); err != nil {
			return err
		}
	}
	if c.Cache.Capacity < 1 {
		return fmt.Errorf("CACHE_CAPACITY must be positive, got %d", c.Cache.Capacity)
	}
	if c.Cache.Timeout <= 0 {
		return fmt.Errorf("CACHE_TIMEOUT must be positive, got %v", c.Cache.Timeout)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0, got %d", c.Database.Threads)
	}
	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("DUCKDB_QUERY_TIMEOUT must be positive, got %v", c.Database.QueryTimeout)
	}
	return nil
}

func (c *Config) validateEmbedding() error {
	if !c.Embedding.Enabled {
		return nil
	}
	if err := validateHTTPURL("OLLAMA_URL", c.Embedding.URL); err != nil {
		return err
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("EMBEDDING_MODEL is required when EMBEDDINGS_ENABLED=true")
	}
	if c.Embedding.Timeout <= 0 {
		return fmt.Errorf("EMBEDDING_TIMEOUT must be positive, got %v", c.Embedding.Timeout)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := &c.Recommend
	if r.AlgorithmTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_ALGORITHM_TIMEOUT must be positive, got %v", r.AlgorithmTimeout)
	}
	weights := []float64{r.ContentWeight, r.CollaborativeWeight, r.TrendingWeight, r.DiverseWeight}
	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return fmt.Errorf("recommendation weights must be >= 0")
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("recommendation weights must sum to 1.0, got %.3f", sum)
	}
	if r.MaxNeighbors < 1 {
		return fmt.Errorf("RECOMMEND_MAX_NEIGHBORS must be positive, got %d", r.MaxNeighbors)
	}
	if r.TrendingWindowHours < 1 {
		return fmt.Errorf("RECOMMEND_TRENDING_WINDOW_HOURS must be positive, got %d", r.TrendingWindowHours)
	}
	return nil
}

func (c *Config) validateIngest() error {
	if !c.Ingest.Enabled {
		return nil
	}
	if c.Ingest.Interval <= 0 {
		return fmt.Errorf("INGEST_INTERVAL must be positive, got %v", c.Ingest.Interval)
	}
	if c.Ingest.PageSize < 1 || c.Ingest.PageSize > 100 {
		return fmt.Errorf("INGEST_PAGE_SIZE must be between 1 and 100, got %d", c.Ingest.PageSize)
	}
	for _, cat := range c.Ingest.Categories {
		if !IsCategory(cat) {
			return fmt.Errorf("INGEST_CATEGORIES contains unknown category %q", cat)
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	if !c.Security.RateLimitDisabled && (c.Security.RateLimitReqs < 1 || c.Security.RateLimitWindow <= 0) {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func validateHTTPURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", name, raw)
	}
	return nil
}

// IsCategory reports whether name is one of Categories.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}
