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

func (e *Engine) collaborative(ctx context.Context, userID string, k int) ([]models.ScoredArticle, bool, error) {
	return cache.Load(ctx, e.loader, collaborativeKey(userID, k), ResultTTL,
		func(ctx context.Context) ([]models.ScoredArticle, error) {
			return e.computeCollaborative(ctx, userID, k, e.now())
		})
}

// computeCollaborative scores each article the user has not seen by the sum
// of Jaccard similarities of the neighbours who read it.
func (e *Engine) computeCollaborative(ctx context.Context, userID string, k int, asOf time.Time) ([]models.ScoredArticle, error) {
	mine, err := e.repo.UserArticleIDs(ctx, userID, asOf)
	if err != nil {
		return nil, err
	}
	if len(mine) == 0 {
		return []models.ScoredArticle{}, nil
	}

	neighbors, err := e.repo.Neighbors(ctx, userID, asOf, e.config.MaxNeighbors)
	if err != nil {
		return nil, err
	}
	if len(neighbors) == 0 {
		return []models.ScoredArticle{}, nil
	}

	neighborIDs := make([]string, len(neighbors))
	for i, n := range neighbors {
		neighborIDs[i] = n.UserID
	}
	sets, err := e.repo.UserArticleSets(ctx, neighborIDs, asOf)
	if err != nil {
		return nil, err
	}

	seen := toSet(mine)
	scores := make(map[string]float64)
	for _, n := range neighbors {
		theirs := sets[n.UserID]
		sim := jaccard(seen, theirs)
		if sim == 0 {
			continue
		}
		for _, id := range theirs {
			if _, ok := seen[id]; !ok {
				scores[id] += sim
			}
		}
	}

	ranked := make([]string, 0, len(scores))
	for id := range scores {
		ranked = append(ranked, id)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if scores[ranked[i]] != scores[ranked[j]] {
			return scores[ranked[i]] > scores[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})

	out, err := e.articlesInOrder(ctx, ranked, scores)
	if err != nil {
		return nil, err
	}
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// jaccard returns |a ∩ b| / |a ∪ b| for a set a and a duplicate-free list b.
func jaccard(a map[string]struct{}, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for _, id := range b {
		if _, ok := a[id]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
