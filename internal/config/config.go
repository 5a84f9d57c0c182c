// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

// Package config loads Headlines configuration from built-in defaults, an
// optional YAML file and environment variables, in that order of precedence.
package config

import (
	"time"
)

// Config holds all application configuration.
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Providers ProvidersConfig `koanf:"providers"`
	Cache     CacheConfig     `koanf:"cache"`
	Database  DatabaseConfig  `koanf:"database"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Recommend RecommendConfig `koanf:"recommend"`
	Ingest    IngestConfig    `koanf:"ingest"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ProvidersConfig configures the upstream news providers.
// A provider without an API key is not registered (DuckDuckGo needs none).
type ProvidersConfig struct {
	NewsAPIKey string `koanf:"newsapi_key"`
	NewsAPIURL string `koanf:"newsapi_url"`
	GNewsKey   string `koanf:"gnews_key"`
	GNewsURL   string `koanf:"gnews_url"`
	NYTimesKey string `koanf:"nytimes_key"`
	NYTimesURL string `koanf:"nytimes_url"`

	DuckDuckGoEnabled bool   `koanf:"duckduckgo_enabled"`
	DuckDuckGoURL     string `koanf:"duckduckgo_url"`

	// RSSFeeds enables the feed provider when non-empty.
	RSSFeeds []string `koanf:"rss_feeds"`

	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`

	// Quota window and per-provider call limits.
	QuotaWindow     time.Duration `koanf:"quota_window"`
	NewsAPIQuota    int           `koanf:"newsapi_quota"`
	GNewsQuota      int           `koanf:"gnews_quota"`
	NYTimesQuota    int           `koanf:"nytimes_quota"`
	DuckDuckGoQuota int           `koanf:"duckduckgo_quota"`
	RSSQuota        int           `koanf:"rss_quota"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is one of auto, remote, memory, badger. Auto picks remote
	// when RemoteURL and RemoteToken are both set, memory otherwise.
	Backend     string        `koanf:"backend"`
	RemoteURL   string        `koanf:"remote_url"`
	RemoteToken string        `koanf:"remote_token"`
	Timeout     time.Duration `koanf:"timeout"`
	Capacity    int           `koanf:"capacity"`
	BadgerPath  string        `koanf:"badger_path"`
}

// DatabaseConfig configures the DuckDB datastore.
type DatabaseConfig struct {
	Path         string        `koanf:"path"`
	MaxMemory    string        `koanf:"max_memory"`
	Threads      int           `koanf:"threads"`
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// EmbeddingConfig configures the embedding model server (Ollama API).
type EmbeddingConfig struct {
	Enabled   bool          `koanf:"enabled"`
	URL       string        `koanf:"url"`
	Model     string        `koanf:"model"`
	FastModel string        `koanf:"fast_model"`
	Timeout   time.Duration `koanf:"timeout"`
}

// RecommendConfig configures the recommendation engine.
type RecommendConfig struct {
	AlgorithmTimeout    time.Duration `koanf:"algorithm_timeout"`
	ContentWeight       float64       `koanf:"content_weight"`
	CollaborativeWeight float64       `koanf:"collaborative_weight"`
	TrendingWeight      float64       `koanf:"trending_weight"`
	DiverseWeight       float64       `koanf:"diverse_weight"`
	MaxNeighbors        int           `koanf:"max_neighbors"`
	TrendingWindowHours int           `koanf:"trending_window_hours"`
}

// IngestConfig configures the background headline ingest service.
type IngestConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Interval   time.Duration `koanf:"interval"`
	Categories []string      `koanf:"categories"`
	PageSize   int           `koanf:"page_size"`
	Timeout    time.Duration `koanf:"timeout"`
	OnStartup  bool          `koanf:"on_startup"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SecurityConfig holds rate limiting and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, config file and environment.
// See LoadWithKoanf for the layering rules.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// RemoteCacheConfigured reports whether both remote cache credentials are set.
func (c *CacheConfig) RemoteCacheConfigured() bool {
	return c.RemoteURL != "" && c.RemoteToken != ""
}
