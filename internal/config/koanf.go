// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/headlines/config.yaml",
	"/etc/headlines/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Categories is the fixed category set used for trending headlines and
// placeholder topics.
var Categories = []string{"business", "entertainment", "general", "health", "science", "sports", "technology"}

func defaultConfig() *Config {
	return &Config{
		Providers: ProvidersConfig{
			NewsAPIURL:        "https://newsapi.org",
			GNewsURL:          "https://gnews.io",
			NYTimesURL:        "https://api.nytimes.com",
			DuckDuckGoEnabled: true,
			DuckDuckGoURL:     "https://duckduckgo.com",
			RSSFeeds:          []string{},
			Timeout:           10 * time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
			QuotaWindow:       24 * time.Hour,
			NewsAPIQuota:      100,
			GNewsQuota:        100,
			NYTimesQuota:      500,
			DuckDuckGoQuota:   100,
			RSSQuota:          1000,
		},
		Cache: CacheConfig{
			Backend:  "auto",
			Timeout:  10 * time.Second,
			Capacity: 10000,
		},
		Database: DatabaseConfig{
			Path:         "/data/headlines.duckdb",
			MaxMemory:    "1GB",
			Threads:      0, // 0 = use runtime.NumCPU()
			QueryTimeout: 10 * time.Second,
		},
		Embedding: EmbeddingConfig{
			Enabled:   false,
			URL:       "http://localhost:11434",
			Model:     "all-minilm",
			FastModel: "all-minilm",
			Timeout:   10 * time.Second,
		},
		Recommend: RecommendConfig{
			AlgorithmTimeout:    5 * time.Second,
			ContentWeight:       0.4,
			CollaborativeWeight: 0.3,
			TrendingWeight:      0.2,
			DiverseWeight:       0.1,
			MaxNeighbors:        10,
			TrendingWindowHours: 24,
		},
		Ingest: IngestConfig{
			Enabled:    false,
			Interval:   30 * time.Minute,
			Categories: append([]string(nil), Categories...),
			PageSize:   20,
			Timeout:    2 * time.Minute,
			OnStartup:  true,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in defaults from defaultConfig
//  2. Config file: optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment variables: mapped names only, highest priority
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file, or "" if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when they arrive as strings.
var sliceConfigPaths = []string{
	"providers.rss_feeds",
	"ingest.categories",
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	"news_api_key":       "providers.newsapi_key",
	"newsapi_url":        "providers.newsapi_url",
	"gnews_api_key":      "providers.gnews_key",
	"gnews_url":          "providers.gnews_url",
	"nyt_api_key":        "providers.nytimes_key",
	"nytimes_url":        "providers.nytimes_url",
	"duckduckgo_enabled": "providers.duckduckgo_enabled",
	"duckduckgo_url":     "providers.duckduckgo_url",
	"rss_feeds":          "providers.rss_feeds",
	"provider_timeout":   "providers.timeout",
	"provider_rps":       "providers.requests_per_second",
	"provider_burst":     "providers.burst",
	"quota_window":       "providers.quota_window",
	"newsapi_quota":      "providers.newsapi_quota",
	"gnews_quota":        "providers.gnews_quota",
	"nytimes_quota":      "providers.nytimes_quota",
	"duckduckgo_quota":   "providers.duckduckgo_quota",
	"rss_quota":          "providers.rss_quota",

	"cache_backend":            "cache.backend",
	"upstash_redis_rest_url":   "cache.remote_url",
	"upstash_redis_rest_token": "cache.remote_token",
	"cache_timeout":            "cache.timeout",
	"cache_capacity":           "cache.capacity",
	"cache_badger_path":        "cache.badger_path",

	"duckdb_path":          "database.path",
	"duckdb_max_memory":    "database.max_memory",
	"duckdb_threads":       "database.threads",
	"duckdb_query_timeout": "database.query_timeout",

	"embeddings_enabled":   "embedding.enabled",
	"ollama_url":           "embedding.url",
	"embedding_model":      "embedding.model",
	"embedding_fast_model": "embedding.fast_model",
	"embedding_timeout":    "embedding.timeout",

	"recommend_algorithm_timeout":     "recommend.algorithm_timeout",
	"recommend_content_weight":        "recommend.content_weight",
	"recommend_collaborative_weight":  "recommend.collaborative_weight",
	"recommend_trending_weight":       "recommend.trending_weight",
	"recommend_diverse_weight":        "recommend.diverse_weight",
	"recommend_max_neighbors":         "recommend.max_neighbors",
	"recommend_trending_window_hours": "recommend.trending_window_hours",

	"ingest_enabled":    "ingest.enabled",
	"ingest_interval":   "ingest.interval",
	"ingest_categories": "ingest.categories",
	"ingest_page_size":  "ingest.page_size",
	"ingest_timeout":    "ingest.timeout",
	"ingest_on_startup": "ingest.on_startup",

	"http_host":               "server.host",
	"http_port":               "server.port",
	"server_timeout":          "server.timeout",
	"server_shutdown_timeout": "server.shutdown_timeout",

	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
//   - NEWS_API_KEY -> providers.newsapi_key
//   - UPSTASH_REDIS_REST_URL -> cache.remote_url
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
