// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package main

import (
	"fmt"
	"io"

	"github.com/tomtom215/headlines/internal/cache"
	"github.com/tomtom215/headlines/internal/config"
	"github.com/tomtom215/headlines/internal/database"
	"github.com/tomtom215/headlines/internal/embedding"
	"github.com/tomtom215/headlines/internal/ingest"
	"github.com/tomtom215/headlines/internal/interactions"
	"github.com/tomtom215/headlines/internal/logging"
	"github.com/tomtom215/headlines/internal/news"
	"github.com/tomtom215/headlines/internal/provider"
	"github.com/tomtom215/headlines/internal/recommend"
)

// app holds the wired components shared by every command.
type app struct {
	cfg          *config.Config
	db           *database.DB
	cache        cache.Store
	aggregator   *provider.Aggregator
	embeddings   *embedding.Store
	engine       *recommend.Engine
	interactions *interactions.Store
	news         *news.Service
	ingester     *ingest.Ingester
}

// newApp opens the datastore and cache and builds every service on top.
func newApp(cfg *config.Config) (*app, error) {
	logger := logging.Logger()

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	store, err := cache.New(&cfg.Cache, logger)
	if err != nil {
		closeLogged("database", db)
		return nil, fmt.Errorf("initialize cache: %w", err)
	}

	a := &app{cfg: cfg, db: db, cache: store}
	a.aggregator = provider.FromConfig(&cfg.Providers, logger)
	a.embeddings = embedding.NewStore(db, store, embeddingModels(&cfg.Embedding), logger)

	loader := cache.NewLoader(store)
	a.engine, err = recommend.NewEngine(db, a.embeddings, loader, recommend.ConfigFromSettings(&cfg.Recommend), logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("initialize recommendation engine: %w", err)
	}

	a.interactions = interactions.NewStore(db, loader, logger)
	a.news = news.NewService(a.aggregator, db, store, logger)
	a.ingester = ingest.New(a.aggregator, db, a.embeddings, cfg.Ingest.Categories, cfg.Ingest.PageSize, logger)

	logging.Info().
		Str("cache", store.Name()).
		Strs("providers", a.aggregator.Providers()).
		Bool("embeddings", cfg.Embedding.Enabled).
		Msg("Components initialized")
	return a, nil
}

// embeddingModels returns the Ollama models per tier, or none when
// embeddings are disabled. The fast tier reuses the default model when no
// separate fast model is configured.
func embeddingModels(cfg *config.EmbeddingConfig) embedding.Models {
	models := embedding.Models{}
	if !cfg.Enabled {
		return models
	}
	models[embedding.TierDefault] = embedding.NewOllamaEmbedder(cfg.URL, cfg.Model, cfg.Timeout)
	if cfg.FastModel == "" || cfg.FastModel == cfg.Model {
		models[embedding.TierFast] = models[embedding.TierDefault]
	} else {
		models[embedding.TierFast] = embedding.NewOllamaEmbedder(cfg.URL, cfg.FastModel, cfg.Timeout)
	}
	return models
}

// Close releases the cache and datastore.
func (a *app) Close() {
	if closer, ok := a.cache.(io.Closer); ok {
		closeLogged("cache", closer)
	}
	closeLogged("database", a.db)
}

func closeLogged(name string, c io.Closer) {
	if err := c.Close(); err != nil {
		logging.Error().Err(err).Str("component", name).Msg("Error during close")
	}
}
