// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package provider

import (
	"context"
	"net/url"
	"strconv"

	"github.com/tomtom215/headlines/internal/config"
	"github.com/tomtom215/headlines/internal/models"
)

// GNews is the gnews.io adapter.
type GNews struct {
	adapter
}

type gnewsResponse struct {
	TotalArticles int            `json:"totalArticles"`
	Articles      []gnewsArticle `json:"articles"`
}

type gnewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

// NewGNews creates the gnews.io adapter.
func NewGNews(opts Options) *GNews {
	return &GNews{adapter: newAdapter(NameGNews, opts)}
}

// Search queries /api/v4/search.
func (g *GNews) Search(ctx context.Context, q Query) (Result, error) {
	text := q.Text
	if text == "" {
		text = "news"
	}
	params := g.params(q)
	params.Set("q", text)
	return g.fetch(ctx, "/api/v4/search", params, q.PageSize, "")
}

// Headlines queries /api/v4/top-headlines. GNews has accepted the category
// under both "category" and "topic", so both are sent.
func (g *GNews) Headlines(ctx context.Context, q Query) (Result, error) {
	params := g.params(q)
	category := ""
	if config.IsCategory(q.Category) {
		category = q.Category
		params.Set("category", category)
		params.Set("topic", category)
	}
	return g.fetch(ctx, "/api/v4/top-headlines", params, q.PageSize, category)
}

func (g *GNews) params(q Query) url.Values {
	params := url.Values{}
	params.Set("apikey", g.apiKey)
	params.Set("lang", "en")
	if q.PageSize > 0 {
		params.Set("max", strconv.Itoa(q.PageSize))
	}
	return params
}

func (g *GNews) fetch(ctx context.Context, path string, params url.Values, maxItems int, category string) (Result, error) {
	var resp gnewsResponse
	if err := g.getJSON(ctx, g.baseURL+path+"?"+params.Encode(), nil, &resp); err != nil {
		return Result{}, err
	}

	now := g.now().UTC()
	articles := make([]models.Article, 0, len(resp.Articles))
	for _, item := range limit(resp.Articles, maxItems) {
		a := models.Article{
			Title:       item.Title,
			URL:         item.URL,
			Source:      item.Source.Name,
			PublishedAt: parseTimestamp(item.PublishedAt, now),
			Content:     item.Content,
			Summary:     item.Description,
			ImageURL:    item.Image,
			ReadTime:    ReadTime(len(item.Content)),
		}
		if a.Source == "" {
			a.Source = "GNews"
		}
		if !finalize(g.name, &a, category) {
			continue
		}
		articles = append(articles, a)
	}
	return Result{Articles: articles, TotalResults: len(articles)}, nil
}
