// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package provider

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/headlines/internal/models"
)

// DuckDuckGo is the keyless DuckDuckGo news adapter. It has no headlines
// endpoint, so Headlines searches for "{category} news".
type DuckDuckGo struct {
	adapter
}

type ddgResponse struct {
	Results []struct {
		Title   string      `json:"title"`
		URL     string      `json:"url"`
		Source  string      `json:"source"`
		Date    looseString `json:"date"`
		Image   string      `json:"image"`
		Excerpt string      `json:"excerpt"`
	} `json:"results"`
}

// looseString accepts a JSON string or number. DuckDuckGo sends dates as
// unix seconds.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	*s = looseString(data)
	return nil
}

// NewDuckDuckGo creates the DuckDuckGo adapter. APIKey is ignored.
func NewDuckDuckGo(opts Options) *DuckDuckGo {
	return &DuckDuckGo{adapter: newAdapter(NameDuckDuckGo, opts)}
}

// Search queries /news.js.
func (d *DuckDuckGo) Search(ctx context.Context, q Query) (Result, error) {
	text := q.Text
	if text == "" {
		text = "news"
	}
	return d.fetch(ctx, text, q.PageSize, "")
}

// Headlines searches for the category as a news query.
func (d *DuckDuckGo) Headlines(ctx context.Context, q Query) (Result, error) {
	text := "news"
	if q.Category != "" {
		text = strings.ToLower(q.Category) + " news"
	}
	return d.fetch(ctx, text, q.PageSize, strings.ToLower(q.Category))
}

func (d *DuckDuckGo) fetch(ctx context.Context, text string, maxItems int, category string) (Result, error) {
	params := url.Values{}
	params.Set("q", text)
	params.Set("o", "json")

	var resp ddgResponse
	if err := d.getJSON(ctx, d.baseURL+"/news.js?"+params.Encode(), nil, &resp); err != nil {
		return Result{}, err
	}

	now := d.now().UTC()
	articles := make([]models.Article, 0, len(resp.Results))
	for _, item := range limit(resp.Results, maxItems) {
		a := models.Article{
			Title:       item.Title,
			URL:         item.URL,
			Source:      item.Source,
			PublishedAt: parseTimestamp(string(item.Date), now),
			Summary:     item.Excerpt,
			ImageURL:    item.Image,
			ReadTime:    ReadTime(len(item.Excerpt)),
		}
		if a.Source == "" {
			a.Source = "DuckDuckGo"
		}
		if !finalize(d.name, &a, category) {
			continue
		}
		articles = append(articles, a)
	}
	return Result{Articles: articles, TotalResults: len(articles)}, nil
}
