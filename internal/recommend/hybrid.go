// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package recommend

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/tomtom215/headlines/internal/cache"
	"github.com/tomtom215/headlines/internal/config"
	"github.com/tomtom215/headlines/internal/database"
	"github.com/tomtom215/headlines/internal/metrics"
	"github.com/tomtom215/headlines/internal/models"
)

// hybridOrder is the blend priority; it breaks score ties by first discovery.
var hybridOrder = []string{AlgorithmContent, AlgorithmCollaborative, AlgorithmTrending, AlgorithmDiverse}

// subAlgorithm computes one hybrid input for n candidates.
type subAlgorithm struct {
	name string
	run  func(ctx context.Context, n int) ([]models.ScoredArticle, error)
}

func (e *Engine) hybrid(ctx context.Context, userID, articleID string, interests []string, k int) ([]models.ScoredArticle, bool, error) {
	return cache.Load(ctx, e.loader, hybridKey(userID, articleID, interests, k), ResultTTL,
		func(ctx context.Context) ([]models.ScoredArticle, error) {
			algs := e.hybridAlgorithms(userID, articleID, interests)
			results := e.runAlgorithmPredictions(ctx, algs, 2*k)
			if err := datastoreFailure(results); err != nil {
				return nil, err
			}
			if partial(results) {
				cache.SkipStore(ctx)
			}
			return e.combineAlgorithmScores(results, k), nil
		})
}

// datastoreFailure returns the first sub-algorithm error caused by the
// datastore. Those fail the whole blend rather than degrade it.
func datastoreFailure(results []algResult) error {
	for _, r := range results {
		if errors.Is(r.err, database.ErrUnavailable) || errors.Is(r.err, database.ErrWriteFailed) {
			return r.err
		}
	}
	return nil
}

// partial reports whether any sub-algorithm failed or timed out. A blend
// missing an input is served but not cached.
func partial(results []algResult) bool {
	for _, r := range results {
		if r.err != nil {
			return true
		}
	}
	return false
}

// hybridAlgorithms lists the sub-algorithms the inputs allow, in blend
// priority order.
func (e *Engine) hybridAlgorithms(userID, articleID string, interests []string) []subAlgorithm {
	algs := make([]subAlgorithm, 0, len(hybridOrder))

	if articleID != "" {
		algs = append(algs, subAlgorithm{AlgorithmContent, func(ctx context.Context, n int) ([]models.ScoredArticle, error) {
			out, _, err := e.contentBased(ctx, articleID, n)
			return out, err
		}})
	}
	if userID != "" {
		algs = append(algs, subAlgorithm{AlgorithmCollaborative, func(ctx context.Context, n int) ([]models.ScoredArticle, error) {
			out, _, err := e.collaborative(ctx, userID, n)
			return out, err
		}})
	}

	category := ""
	if articleID == "" && userID == "" {
		category = interestCategory(interests)
	}
	algs = append(algs,
		subAlgorithm{AlgorithmTrending, func(ctx context.Context, n int) ([]models.ScoredArticle, error) {
			out, _, err := e.trending(ctx, category, e.config.TrendingWindowHours, n)
			return out, err
		}},
		subAlgorithm{AlgorithmDiverse, func(ctx context.Context, n int) ([]models.ScoredArticle, error) {
			out, _, err := e.diverse(ctx, userID, articleID, n)
			return out, err
		}},
	)
	return algs
}

// interestCategory returns the first interest naming a known category.
func interestCategory(interests []string) string {
	for _, i := range interests {
		if config.IsCategory(i) {
			return i
		}
	}
	return ""
}

// runAlgorithmPredictions runs every sub-algorithm concurrently.
func (e *Engine) runAlgorithmPredictions(ctx context.Context, algs []subAlgorithm, n int) []algResult {
	results := make([]algResult, len(algs))
	var wg sync.WaitGroup

	for i, alg := range algs {
		wg.Add(1)
		go func(idx int, a subAlgorithm) {
			defer wg.Done()
			results[idx] = e.runSingleAlgorithm(ctx, a, n)
		}(i, alg)
	}

	wg.Wait()
	return results
}

func (e *Engine) runSingleAlgorithm(ctx context.Context, alg subAlgorithm, n int) algResult {
	result := algResult{name: alg.name}

	algCtx, cancel := context.WithTimeout(ctx, e.config.AlgorithmTimeout)
	defer cancel()

	result.articles, result.err = alg.run(algCtx, n)
	if result.err != nil && errors.Is(algCtx.Err(), context.DeadlineExceeded) {
		metrics.RecommendTimeouts.WithLabelValues(alg.name).Inc()
	}
	return result
}

// combineAlgorithmScores blends results by weight * (1 - position/length)
// and returns the top k. Results arrive in priority order, so the first
// discovery order doubles as the tie breaker.
func (e *Engine) combineAlgorithmScores(results []algResult, k int) []models.ScoredArticle {
	weights := e.config.Weights.ToMap()
	combined := make(map[string]float64)
	articles := make(map[string]models.Article)
	var order []string

	for _, result := range results {
		if !e.shouldUseResult(result, weights) {
			continue
		}
		weight := weights[result.name]
		total := float64(len(result.articles))
		for pos := range result.articles {
			a := &result.articles[pos]
			if _, ok := articles[a.ID]; !ok {
				articles[a.ID] = a.Article
				order = append(order, a.ID)
			}
			combined[a.ID] += weight * (1 - float64(pos)/total)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return combined[order[i]] > combined[order[j]]
	})
	if len(order) > k {
		order = order[:k]
	}

	out := make([]models.ScoredArticle, len(order))
	for i, id := range order {
		out[i] = models.ScoredArticle{Article: articles[id], Score: combined[id]}
	}
	return out
}

func (e *Engine) shouldUseResult(result algResult, weights map[string]float64) bool {
	if result.err != nil {
		e.logger.Warn().
			Str("algorithm", result.name).
			Err(result.err).
			Msg("algorithm prediction failed")
		return false
	}
	if len(result.articles) == 0 {
		return false
	}
	return weights[result.name] > 0
}
