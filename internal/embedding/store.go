// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

// Package embedding resolves per-article embedding vectors through a cache,
// the datastore and, on a miss, an embedding model.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/headlines/internal/cache"
	"github.com/tomtom215/headlines/internal/database"
	"github.com/tomtom215/headlines/internal/logging"
	"github.com/tomtom215/headlines/internal/metrics"
	"github.com/tomtom215/headlines/internal/models"
)

// CacheTTL is how long a resolved vector stays cached.
const CacheTTL = time.Hour

// precomputeConcurrency bounds parallel model calls during Precompute.
const precomputeConcurrency = 4

var (
	// ErrEmbeddingUnavailable is returned when no model could produce a
	// vector. Callers treat it as "no embedding".
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrArticleNotFound is returned when the article to embed is unknown.
	ErrArticleNotFound = errors.New("article not found")
)

// Repository is the datastore view the store needs.
type Repository interface {
	GetArticle(ctx context.Context, id string) (models.Article, error)
	GetEmbedding(ctx context.Context, articleID string) (models.ArticleEmbedding, error)
	UpsertEmbedding(ctx context.Context, articleID string, vector []float32) error
}

// Store resolves article embeddings.
type Store struct {
	repo   Repository
	cache  cache.Store
	models Models
	logger zerolog.Logger
}

// NewStore creates a Store. m may be empty, in which case only persisted
// vectors are served.
func NewStore(repo Repository, c cache.Store, m Models, logger zerolog.Logger) *Store {
	if m == nil {
		m = Models{}
	}
	return &Store{
		repo:   repo,
		cache:  c,
		models: m,
		logger: logging.Component(logger, "embedding"),
	}
}

// CacheKey is the cache key of an article's vector.
func CacheKey(articleID string) string {
	return "embedding:" + articleID
}

// Resolve returns the vector of articleID. It checks the cache, then the
// datastore, then computes the vector with the tier's model and persists it.
func (s *Store) Resolve(ctx context.Context, articleID string, tier Tier) ([]float32, error) {
	key := CacheKey(articleID)
	if v, ok := cache.GetJSON[[]float32](ctx, s.cache, key); ok && len(v) == models.EmbeddingDimension {
		metrics.EmbeddingResolutions.WithLabelValues("cache").Inc()
		return v, nil
	}

	stored, err := s.repo.GetEmbedding(ctx, articleID)
	switch {
	case err == nil:
		metrics.EmbeddingResolutions.WithLabelValues("datastore").Inc()
		cache.SetJSON(ctx, s.cache, key, stored.Vector, CacheTTL)
		return stored.Vector, nil
	case !errors.Is(err, database.ErrNotFound):
		return nil, err
	}

	article, err := s.repo.GetArticle(ctx, articleID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrArticleNotFound, articleID)
	}
	if err != nil {
		return nil, err
	}

	vector, err := s.compute(ctx, &article, tier)
	if err != nil {
		metrics.EmbeddingResolutions.WithLabelValues("unavailable").Inc()
		return nil, err
	}

	if err := s.repo.UpsertEmbedding(ctx, articleID, vector); err != nil {
		return nil, err
	}
	metrics.EmbeddingResolutions.WithLabelValues("computed").Inc()
	cache.SetJSON(ctx, s.cache, key, vector, CacheTTL)
	return vector, nil
}

func (s *Store) compute(ctx context.Context, article *models.Article, tier Tier) ([]float32, error) {
	embedder, ok := s.models[tier]
	if !ok || embedder == nil {
		return nil, fmt.Errorf("%w: no model for tier %q", ErrEmbeddingUnavailable, tier)
	}

	start := time.Now()
	vector, err := embedder.Embed(ctx, article.EmbeddingText())
	metrics.EmbeddingComputeDuration.WithLabelValues(string(tier)).Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, ErrEmbeddingUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}
	if len(vector) != models.EmbeddingDimension {
		return nil, fmt.Errorf("%w: model returned %d dimensions, want %d",
			ErrEmbeddingUnavailable, len(vector), models.EmbeddingDimension)
	}
	return vector, nil
}

// Precompute resolves vectors for ids and returns how many it now has.
// Articles the model cannot embed are skipped; a datastore failure aborts.
func (s *Store) Precompute(ctx context.Context, ids []string, tier Tier) (int, error) {
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(precomputeConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			_, err := s.Resolve(gctx, id, tier)
			switch {
			case err == nil:
				done.Add(1)
				return nil
			case errors.Is(err, ErrEmbeddingUnavailable), errors.Is(err, ErrArticleNotFound):
				s.logger.Debug().Err(err).Str("article_id", id).Msg("Skipping embedding")
				return nil
			default:
				return err
			}
		})
	}
	err := g.Wait()
	return int(done.Load()), err
}
