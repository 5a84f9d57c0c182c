// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tomtom215/headlines/internal/config"
	"github.com/tomtom215/headlines/internal/models"
)

// newsAPISearchDays bounds /v2/everything to recent articles.
const newsAPISearchDays = 7

// NewsAPI is the newsapi.org adapter. It is the only provider that reports a
// meaningful result total.
type NewsAPI struct {
	adapter
}

type newsAPIResponse struct {
	Status       string           `json:"status"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// NewNewsAPI creates the newsapi.org adapter.
func NewNewsAPI(opts Options) *NewsAPI {
	return &NewsAPI{adapter: newAdapter(NameNewsAPI, opts)}
}

// Search queries /v2/everything over the last week, sorted by relevancy.
func (n *NewsAPI) Search(ctx context.Context, q Query) (Result, error) {
	text := q.Text
	if text == "" {
		text = "news"
	}
	now := n.now().UTC()

	params := url.Values{}
	params.Set("q", text)
	params.Set("from", now.AddDate(0, 0, -newsAPISearchDays).Format("2006-01-02"))
	params.Set("to", now.Format("2006-01-02"))
	params.Set("language", "en")
	params.Set("sortBy", "relevancy")
	setPaging(params, q)

	return n.fetch(ctx, "/v2/everything", params, "")
}

// Headlines queries /v2/top-headlines, filtered by category when it is known.
func (n *NewsAPI) Headlines(ctx context.Context, q Query) (Result, error) {
	params := url.Values{}
	params.Set("language", "en")
	category := ""
	if config.IsCategory(q.Category) {
		category = q.Category
		params.Set("category", category)
	}
	setPaging(params, q)

	return n.fetch(ctx, "/v2/top-headlines", params, category)
}

func setPaging(params url.Values, q Query) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(q.PageSize))
	}
}

func (n *NewsAPI) fetch(ctx context.Context, path string, params url.Values, category string) (Result, error) {
	header := http.Header{"X-Api-Key": {n.apiKey}}

	var resp newsAPIResponse
	if err := n.getJSON(ctx, n.baseURL+path+"?"+params.Encode(), header, &resp); err != nil {
		return Result{}, err
	}
	if resp.Status != "" && resp.Status != "ok" {
		return Result{}, fmt.Errorf("%w: newsapi %s: %s", ErrUnavailable, resp.Code, resp.Message)
	}

	now := n.now().UTC()
	articles := make([]models.Article, 0, len(resp.Articles))
	for _, item := range resp.Articles {
		a := models.Article{
			Title:       item.Title,
			URL:         item.URL,
			Source:      item.Source.Name,
			PublishedAt: parseTimestamp(item.PublishedAt, now),
			Content:     item.Content,
			Summary:     item.Description,
			ImageURL:    item.URLToImage,
			ReadTime:    ReadTime(len(item.Content)),
		}
		if a.Source == "" {
			a.Source = "NewsAPI"
		}
		if !finalize(n.name, &a, category) {
			continue
		}
		articles = append(articles, a)
	}
	return Result{Articles: articles, TotalResults: resp.TotalResults}, nil
}
