// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

// Package ingest pulls current headlines into the datastore and embeds the
// articles that do not have a vector yet.
package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/headlines/internal/embedding"
	"github.com/tomtom215/headlines/internal/logging"
	"github.com/tomtom215/headlines/internal/metrics"
	"github.com/tomtom215/headlines/internal/models"
	"github.com/tomtom215/headlines/internal/provider"
)

// embedBatch caps how many missing vectors one run computes.
const embedBatch = 200

// Source fetches headlines.
type Source interface {
	Trending(ctx context.Context, category string, page, pageSize int) (models.NewsPage, error)
}

// Repository stores articles and reports which lack embeddings.
type Repository interface {
	UpsertArticles(ctx context.Context, articles []models.Article) (int, error)
	ArticlesWithoutEmbeddings(ctx context.Context, limit int) ([]string, error)
}

// Embedder precomputes article vectors.
type Embedder interface {
	Precompute(ctx context.Context, ids []string, tier embedding.Tier) (int, error)
}

// Result summarizes one run.
type Result struct {
	Fetched  int
	Written  int
	Embedded int
	Duration time.Duration
}

// Ingester runs ingest passes.
type Ingester struct {
	source     Source
	repo       Repository
	embeddings Embedder
	categories []string
	pageSize   int
	logger     zerolog.Logger
}

// New creates an Ingester. embeddings may be nil to skip vector
// precomputation.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(source Source, repo Repository, embeddings Embedder, categories []string, pageSize int, logger zerolog.Logger) *Ingester {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Ingester{
		source:     source,
		repo:       repo,
		embeddings: embeddings,
		categories: categories,
		pageSize:   pageSize,
		logger:     logging.Component(logger, "ingest"),
	}
}

// RunOnce fetches the first page of headlines for every category, stores
// the live articles and embeds stored articles that lack a vector. A failing
// category is logged and skipped; a datastore failure ends the run.
func (i *Ingester) RunOnce(ctx context.Context) (Result, error) {
	start := time.Now()
	var res Result
	if logging.RunID(ctx) == "" {
		ctx = logging.WithRunID(ctx, logging.NewID())
	}
	logger := logging.From(ctx, i.logger)

	seen := make(map[string]struct{})
	var batch []models.Article
	for _, category := range i.categories {
		if err := ctx.Err(); err != nil {
			return finish(logger, res, start, err)
		}
		page, err := i.source.Trending(ctx, category, 1, i.pageSize)
		if err != nil {
			logger.Warn().Err(err).Str("category", category).Msg("Headline fetch failed")
			continue
		}
		for idx := range page.Articles {
			a := &page.Articles[idx]
			if provider.IsDemoArticle(a) {
				continue
			}
			if _, dup := seen[a.ID]; dup {
				continue
			}
			seen[a.ID] = struct{}{}
			batch = append(batch, *a)
		}
	}
	res.Fetched = len(batch)

	if len(batch) > 0 {
		written, err := i.repo.UpsertArticles(ctx, batch)
		if err != nil {
			return finish(logger, res, start, err)
		}
		res.Written = written
		metrics.IngestArticles.Add(float64(written))
	}

	if i.embeddings != nil {
		ids, err := i.repo.ArticlesWithoutEmbeddings(ctx, embedBatch)
		if err != nil {
			return finish(logger, res, start, err)
		}
		embedded, err := i.embeddings.Precompute(ctx, ids, embedding.TierFast)
		res.Embedded = embedded
		if err != nil {
			return finish(logger, res, start, err)
		}
	}

	return finish(logger, res, start, nil)
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func finish(logger zerolog.Logger, res Result, start time.Time, err error) (Result, error) {
	res.Duration = time.Since(start)
	outcome := "success"
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = "canceled"
	case err != nil:
		outcome = "error"
	}
	metrics.IngestRuns.WithLabelValues(outcome).Inc()

	event := logger.Info()
	if err != nil {
		event = logger.Warn().Err(err)
	}
	event.
		Int("fetched", res.Fetched).
		Int("written", res.Written).
		Int("embedded", res.Embedded).
		Dur("duration", res.Duration).
		Msg("Ingest run finished")
	return res, err
}
