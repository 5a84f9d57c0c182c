// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package models

import (
	"time"
)

// EmbeddingDimension is the fixed length of every article embedding vector.
const EmbeddingDimension = 384

// Article is a normalized news item from any provider.
//
// ID is derived from the canonical URL when the provider does not supply one,
// so the same story fetched twice maps to the same row. URL is unique.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
	Content     string    `json:"content,omitempty"`
	Summary     string    `json:"summary"`
	Topic       string    `json:"topic"`
	ImageURL    string    `json:"imageUrl"`
	ReadTime    string    `json:"readTime"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// EmbeddingText is the text fed to the embedding model for this article.
func (a *Article) EmbeddingText() string {
	return a.Title + " " + a.Summary
}

// ArticleEmbedding is the persisted vector for one article.
type ArticleEmbedding struct {
	ArticleID string    `json:"articleId"`
	Vector    []float32 `json:"vector"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ScoredArticle is a recommendation result: the article plus its ranking score.
// The score meaning depends on the algorithm (similarity, Jaccard sum,
// trending score or blended hybrid score).
type ScoredArticle struct {
	Article
	Score float64 `json:"score"`
}

// NewsPage is a paginated set of articles.
type NewsPage struct {
	Articles     []Article `json:"articles"`
	TotalResults int       `json:"totalResults"`
	Page         int       `json:"page"`
	PageSize     int       `json:"pageSize"`
}
