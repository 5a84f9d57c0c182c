// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/headlines/internal/cache"
	"github.com/tomtom215/headlines/internal/models"
)

func (e *Engine) diverse(ctx context.Context, userID, seedID string, k int) ([]models.ScoredArticle, bool, error) {
	return cache.Load(ctx, e.loader, diverseKey(userID, seedID, k), ResultTTL,
		func(ctx context.Context) ([]models.ScoredArticle, error) {
			pool, err := e.diversePool(ctx, userID, seedID, k, e.now())
			if err != nil {
				return nil, err
			}
			return spreadTopics(pool, k), nil
		})
}

// diversePool picks the base pool: articles similar to the seed, else the
// user's collaborative results, else the newest article of each topic, else
// the newest articles.
func (e *Engine) diversePool(ctx context.Context, userID, seedID string, k int, asOf time.Time) ([]models.ScoredArticle, error) {
	if seedID != "" {
		pool, _, err := e.contentBased(ctx, seedID, 2*k)
		if err != nil {
			return nil, err
		}
		if len(pool) > 0 {
			return pool, nil
		}
	}

	if userID != "" {
		has, err := e.repo.HasInteractions(ctx, userID, asOf)
		if err != nil {
			return nil, err
		}
		if has {
			pool, _, err := e.collaborative(ctx, userID, 2*k)
			if err != nil {
				return nil, err
			}
			if len(pool) > 0 {
				return pool, nil
			}
		}
	}

	latest, err := e.repo.LatestPerTopic(ctx, k)
	if err != nil {
		return nil, err
	}
	if len(latest) > 0 {
		return unscored(latest), nil
	}

	recent, err := e.repo.RecentArticles(ctx, k)
	if err != nil {
		return nil, err
	}
	return unscored(recent), nil
}

// spreadTopics takes the first article of each topic in pool order, then
// fills up to k with the remaining articles in pool order.
func spreadTopics(pool []models.ScoredArticle, k int) []models.ScoredArticle {
	out := make([]models.ScoredArticle, 0, min(k, len(pool)))
	taken := make([]bool, len(pool))
	topics := make(map[string]struct{})

	for i := range pool {
		if len(out) >= k {
			break
		}
		topic := pool[i].Topic
		if topic == "" {
			continue
		}
		if _, ok := topics[topic]; ok {
			continue
		}
		topics[topic] = struct{}{}
		taken[i] = true
		out = append(out, pool[i])
	}

	for i := range pool {
		if len(out) >= k {
			break
		}
		if !taken[i] {
			out = append(out, pool[i])
		}
	}
	return out
}
