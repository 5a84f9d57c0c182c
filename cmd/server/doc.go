// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

/*
Package main is the entry point for the Headlines server.

Headlines aggregates news from several upstream providers, caches pages and
embeddings, stores articles and user interactions in DuckDB and serves
recommendations from five algorithms over a JSON HTTP API.

# Commands

	headlines serve     run the HTTP API and the ingest service
	headlines init-db   create the database schema and exit
	headlines fetch     run one ingest pass and exit
	headlines version   print build information

# Application Architecture

serve runs its long-lived components under a Suture v4 supervisor tree:

	root ("headlines")
	├── data-layer
	│   └── ingest (INGEST_ENABLED=true)
	└── api-layer
	    └── http-server

Components are built in this order: configuration (Koanf v2), logging,
DuckDB, cache backend, provider aggregator, embedding store, recommendation
engine, interaction store, news service.

# Configuration

Settings come from built-in defaults, an optional YAML file (--config or
CONFIG_PATH) and environment variables, highest priority last. Common
variables:

	NEWS_API_KEY, GNEWS_API_KEY, NYT_API_KEY          provider credentials
	UPSTASH_REDIS_REST_URL, UPSTASH_REDIS_REST_TOKEN  remote cache
	DUCKDB_PATH                                       datastore file
	EMBEDDINGS_ENABLED, OLLAMA_URL                    embedding server
	HTTP_PORT                                         listen port (5000)

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for
SERVER_SHUTDOWN_TIMEOUT, then the datastore and cache are closed.
*/
package main
