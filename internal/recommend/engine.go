// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/headlines/internal/cache"
	"github.com/tomtom215/headlines/internal/logging"
	"github.com/tomtom215/headlines/internal/metrics"
	"github.com/tomtom215/headlines/internal/models"
)

// Engine runs the recommendation algorithms. It is safe for concurrent use.
type Engine struct {
	config     *Config
	repo       Repository
	embeddings Resolver
	loader     *cache.Loader
	logger     zerolog.Logger
	now        func() time.Time
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(repo Repository, embeddings Resolver, loader *cache.Loader, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if loader == nil {
		loader = cache.NewLoader(cache.NewMemoryStore(0))
	}

	return &Engine{
		config:     cfg,
		repo:       repo,
		embeddings: embeddings,
		loader:     loader,
		logger:     logging.Component(logger, "recommend"),
		now:        time.Now,
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// Recommend dispatches req to its algorithm. Unknown names run hybrid.
// content_based without an article and collaborative without a user return
// an empty result.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	k := e.config.clampK(req.K)

	logger := logging.Ctx(ctx).With().
		Str("component", "recommend").
		Str("algorithm", req.Algorithm).
		Str("user_id", req.UserID).
		Str("article_id", req.ArticleID).
		Int("k", k).
		Logger()

	resp := &Response{Algorithm: req.Algorithm}
	var (
		articles []models.ScoredArticle
		cached   bool
		err      error
	)

	switch req.Algorithm {
	case AlgorithmContent:
		if req.ArticleID != "" {
			articles, cached, err = e.contentBased(ctx, req.ArticleID, k)
		}
	case AlgorithmCollaborative:
		if req.UserID != "" {
			articles, cached, err = e.collaborative(ctx, req.UserID, k)
		}
	case AlgorithmTrending:
		articles, cached, err = e.trending(ctx, req.Category, e.config.TrendingWindowHours, k)
	case AlgorithmDiverse:
		articles, cached, err = e.diverse(ctx, req.UserID, req.ArticleID, k)
	default:
		resp.Algorithm = AlgorithmHybrid
		articles, cached, err = e.hybrid(ctx, req.UserID, req.ArticleID, req.Interests, k)
	}
	if err != nil {
		logger.Error().Err(err).Msg("recommendation failed")
		return nil, err
	}

	if articles == nil {
		articles = []models.ScoredArticle{}
	}
	resp.Articles = articles
	resp.Cached = cached
	resp.Duration = time.Since(start)

	metrics.RecordRecommendation(resp.Algorithm, cached, resp.Duration, len(articles))
	logger.Debug().
		Bool("cached", cached).
		Int("results", len(articles)).
		Dur("duration", resp.Duration).
		Msg("recommendation served")

	return resp, nil
}

// ContentBased returns the k stored articles most similar to articleID.
func (e *Engine) ContentBased(ctx context.Context, articleID string, k int) ([]models.ScoredArticle, error) {
	out, _, err := e.contentBased(ctx, articleID, e.config.clampK(k))
	return out, err
}

// Collaborative returns k articles read by users similar to userID.
func (e *Engine) Collaborative(ctx context.Context, userID string, k int) ([]models.ScoredArticle, error) {
	out, _, err := e.collaborative(ctx, userID, e.config.clampK(k))
	return out, err
}

// Trending returns the k articles with the highest trending score published
// within the last hours. An empty category means all categories.
func (e *Engine) Trending(ctx context.Context, category string, hours, k int) ([]models.ScoredArticle, error) {
	if hours <= 0 {
		hours = e.config.TrendingWindowHours
	}
	out, _, err := e.trending(ctx, category, hours, e.config.clampK(k))
	return out, err
}

// Diverse returns k articles spread across topics.
func (e *Engine) Diverse(ctx context.Context, userID, seedID string, k int) ([]models.ScoredArticle, error) {
	out, _, err := e.diverse(ctx, userID, seedID, e.config.clampK(k))
	return out, err
}

// Hybrid blends the other algorithms.
func (e *Engine) Hybrid(ctx context.Context, userID, articleID string, interests []string, k int) ([]models.ScoredArticle, error) {
	out, _, err := e.hybrid(ctx, userID, articleID, interests, e.config.clampK(k))
	return out, err
}

// articlesInOrder resolves ids to stored articles, keeping the order of ids
// and dropping unknown ones.
func (e *Engine) articlesInOrder(ctx context.Context, ids []string, scores map[string]float64) ([]models.ScoredArticle, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := e.repo.GetArticles(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.ScoredArticle, 0, len(ids))
	for _, id := range ids {
		a, ok := found[id]
		if !ok {
			continue
		}
		out = append(out, models.ScoredArticle{Article: a, Score: scores[id]})
	}
	return out, nil
}

func unscored(articles []models.Article) []models.ScoredArticle {
	out := make([]models.ScoredArticle, len(articles))
	for i := range articles {
		out[i] = models.ScoredArticle{Article: articles[i]}
	}
	return out
}
