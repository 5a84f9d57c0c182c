// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package recommend

import (
	"context"
	"errors"

	"github.com/tomtom215/headlines/internal/cache"
	"github.com/tomtom215/headlines/internal/embedding"
	"github.com/tomtom215/headlines/internal/models"
)

func (e *Engine) contentBased(ctx context.Context, articleID string, k int) ([]models.ScoredArticle, bool, error) {
	return cache.Load(ctx, e.loader, contentKey(articleID, k), ResultTTL,
		func(ctx context.Context) ([]models.ScoredArticle, error) {
			return e.computeContentBased(ctx, articleID, k)
		})
}

// computeContentBased ranks every other article with a stored embedding by
// cosine similarity to the seed. No seed embedding means no result.
func (e *Engine) computeContentBased(ctx context.Context, articleID string, k int) ([]models.ScoredArticle, error) {
	vector, err := e.embeddings.Resolve(ctx, articleID, embedding.TierDefault)
	switch {
	case errors.Is(err, embedding.ErrEmbeddingUnavailable), errors.Is(err, embedding.ErrArticleNotFound):
		e.logger.Debug().Err(err).Str("article_id", articleID).Msg("no seed embedding")
		return []models.ScoredArticle{}, nil
	case err != nil:
		return nil, err
	}

	similar, err := e.repo.SimilarArticles(ctx, vector, articleID, k)
	if err != nil {
		return nil, err
	}
	out := make([]models.ScoredArticle, 0, len(similar))
	for i := range similar {
		if similar[i].ID != articleID {
			out = append(out, similar[i])
		}
	}
	return out, nil
}
