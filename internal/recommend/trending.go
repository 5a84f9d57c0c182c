// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package recommend

import (
	"context"
	"sort"
	"time"

	"github.com/tomtom215/headlines/internal/cache"
	"github.com/tomtom215/headlines/internal/models"
)

func (e *Engine) trending(ctx context.Context, category string, hours, k int) ([]models.ScoredArticle, bool, error) {
	return cache.Load(ctx, e.loader, trendingKey(category, hours, k), TrendingTTL,
		func(ctx context.Context) ([]models.ScoredArticle, error) {
			return e.computeTrending(ctx, category, hours, k, e.now())
		})
}

func (e *Engine) computeTrending(ctx context.Context, category string, hours, k int, asOf time.Time) ([]models.ScoredArticle, error) {
	since := asOf.Add(-time.Duration(hours) * time.Hour)
	activity, err := e.repo.ArticleActivitySince(ctx, since, asOf, category)
	if err != nil {
		return nil, err
	}

	out := make([]models.ScoredArticle, len(activity))
	for i := range activity {
		out[i] = models.ScoredArticle{
			Article: activity[i].Article,
			Score:   TrendingScore(activity[i].Interactions, asOf.Sub(activity[i].Article.PublishedAt)),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// TrendingScore is (interactions + 1) / (hours since publication + 1).
func TrendingScore(interactions int, age time.Duration) float64 {
	hours := age.Hours()
	if hours < 0 {
		hours = 0
	}
	return float64(interactions+1) / (hours + 1)
}
