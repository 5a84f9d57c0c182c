// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/headlines/internal/database"
	"github.com/tomtom215/headlines/internal/embedding"
	"github.com/tomtom215/headlines/internal/models"
)

// Algorithm names.
const (
	AlgorithmContent       = "content_based"
	AlgorithmCollaborative = "collaborative"
	AlgorithmTrending      = "trending"
	AlgorithmDiverse       = "diverse"
	AlgorithmHybrid        = "hybrid"
)

// AlgorithmInfo describes one algorithm to clients.
type AlgorithmInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var catalogue = []AlgorithmInfo{
	{AlgorithmContent, "Content-based filtering using semantic similarity"},
	{AlgorithmCollaborative, "Collaborative filtering based on user interests"},
	{AlgorithmHybrid, "Hybrid approach combining content and collaborative filtering"},
	{AlgorithmTrending, "Popularity-based recommendations"},
	{AlgorithmDiverse, "Diverse recommendations to avoid filter bubbles"},
}

// Algorithms returns the algorithm catalogue.
func Algorithms() []AlgorithmInfo {
	return append([]AlgorithmInfo(nil), catalogue...)
}

// KnownAlgorithm reports whether name is in the catalogue.
func KnownAlgorithm(name string) bool {
	for _, a := range catalogue {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Request selects an algorithm and its inputs. Unknown algorithm names run
// the hybrid algorithm.
type Request struct {
	Algorithm string
	UserID    string
	ArticleID string
	Interests []string
	Category  string
	K         int
}

// Response is the outcome of Recommend.
type Response struct {
	Algorithm string                 `json:"algorithm"`
	Articles  []models.ScoredArticle `json:"articles"`
	Cached    bool                   `json:"cached"`
	Duration  time.Duration          `json:"-"`
}

// Repository is the read-only datastore view the engine uses. Interaction
// queries are bounded by asOf.
type Repository interface {
	GetArticles(ctx context.Context, ids []string) (map[string]models.Article, error)
	SimilarArticles(ctx context.Context, vector []float32, excludeID string, k int) ([]models.ScoredArticle, error)
	RecentArticles(ctx context.Context, limit int) ([]models.Article, error)
	LatestPerTopic(ctx context.Context, limit int) ([]models.Article, error)

	UserArticleIDs(ctx context.Context, userID string, asOf time.Time) ([]string, error)
	Neighbors(ctx context.Context, userID string, asOf time.Time, limit int) ([]database.Neighbor, error)
	UserArticleSets(ctx context.Context, userIDs []string, asOf time.Time) (map[string][]string, error)
	HasInteractions(ctx context.Context, userID string, asOf time.Time) (bool, error)
	ArticleActivitySince(ctx context.Context, since, asOf time.Time, topic string) ([]database.ArticleActivity, error)
	RecentHistory(ctx context.Context, userID string, asOf time.Time, limit int) ([]database.HistoryEntry, error)
}

// Resolver returns the embedding of an article.
type Resolver interface {
	Resolve(ctx context.Context, articleID string, tier embedding.Tier) ([]float32, error)
}

// algResult is one hybrid sub-algorithm outcome.
type algResult struct {
	name     string
	articles []models.ScoredArticle
	err      error
}
