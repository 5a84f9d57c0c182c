// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package provider

import (
	"context"
	"net/url"
	"strings"

	"github.com/tomtom215/headlines/internal/models"
)

const (
	nytSource           = "The New York Times"
	nytPlaceholderImage = "https://via.placeholder.com/720x480?text=NYTimes"
	nytStaticBase       = "https://static01.nyt.com/"
)

// categoryToSection maps the category set onto Top Stories sections.
var categoryToSection = map[string]string{
	"business":      "business",
	"entertainment": "arts",
	"general":       "home",
	"health":        "health",
	"science":       "science",
	"sports":        "sports",
	"technology":    "technology",
}

// sectionToCategory folds NYT section names back into the category set.
var sectionToCategory = map[string]string{
	"arts":         "entertainment",
	"books":        "entertainment",
	"movies":       "entertainment",
	"theater":      "entertainment",
	"fashion":      "entertainment",
	"style":        "entertainment",
	"business":     "business",
	"business day": "business",
	"your money":   "business",
	"health":       "health",
	"well":         "health",
	"science":      "science",
	"climate":      "science",
	"sports":       "sports",
	"technology":   "technology",
	"home":         "general",
	"u.s.":         "general",
	"us":           "general",
	"world":        "general",
	"nyregion":     "general",
	"new york":     "general",
	"politics":     "general",
	"opinion":      "general",
}

// NYTimes is the New York Times adapter (Article Search and Top Stories).
type NYTimes struct {
	adapter
}

type nytMedia struct {
	URL    string `json:"url"`
	Type   string `json:"type"`
	Format string `json:"format"`
}

type nytSearchResponse struct {
	Response struct {
		Docs []struct {
			Headline struct {
				Main string `json:"main"`
			} `json:"headline"`
			WebURL      string     `json:"web_url"`
			Source      string     `json:"source"`
			PubDate     string     `json:"pub_date"`
			Abstract    string     `json:"abstract"`
			SectionName string     `json:"section_name"`
			WordCount   int        `json:"word_count"`
			Multimedia  []nytMedia `json:"multimedia"`
		} `json:"docs"`
	} `json:"response"`
}

type nytTopStoriesResponse struct {
	Results []struct {
		Title         string     `json:"title"`
		URL           string     `json:"url"`
		Section       string     `json:"section"`
		Subsection    string     `json:"subsection"`
		PublishedDate string     `json:"published_date"`
		Abstract      string     `json:"abstract"`
		Multimedia    []nytMedia `json:"multimedia"`
	} `json:"results"`
}

// NewNYTimes creates the New York Times adapter.
func NewNYTimes(opts Options) *NYTimes {
	return &NYTimes{adapter: newAdapter(NameNYTimes, opts)}
}

// Search queries the Article Search API, newest first.
func (n *NYTimes) Search(ctx context.Context, q Query) (Result, error) {
	params := url.Values{}
	params.Set("api-key", n.apiKey)
	params.Set("sort", "newest")
	if q.Text != "" {
		params.Set("q", q.Text)
	}

	var resp nytSearchResponse
	if err := n.getJSON(ctx, n.baseURL+"/svc/search/v2/articlesearch.json?"+params.Encode(), nil, &resp); err != nil {
		return Result{}, err
	}

	now := n.now().UTC()
	articles := make([]models.Article, 0, len(resp.Response.Docs))
	for _, doc := range limit(resp.Response.Docs, q.PageSize) {
		chars := len(doc.Abstract) * 3
		if doc.WordCount > 0 {
			chars = doc.WordCount * charsPerWord
		}
		a := models.Article{
			Title:       doc.Headline.Main,
			URL:         doc.WebURL,
			Source:      doc.Source,
			PublishedAt: parseTimestamp(doc.PubDate, now),
			Summary:     doc.Abstract,
			Topic:       nytTopic(doc.SectionName),
			ImageURL:    nytSearchImage(doc.Multimedia),
			ReadTime:    ReadTime(chars),
		}
		if a.Source == "" {
			a.Source = nytSource
		}
		if !finalize(n.name, &a, "") {
			continue
		}
		articles = append(articles, a)
	}
	return Result{Articles: articles, TotalResults: len(articles)}, nil
}

// Headlines queries Top Stories for the section matching the category,
// "home" when the category is empty or unknown.
func (n *NYTimes) Headlines(ctx context.Context, q Query) (Result, error) {
	section, ok := categoryToSection[q.Category]
	if !ok {
		section = "home"
	}
	params := url.Values{}
	params.Set("api-key", n.apiKey)

	var resp nytTopStoriesResponse
	if err := n.getJSON(ctx, n.baseURL+"/svc/topstories/v2/"+section+".json?"+params.Encode(), nil, &resp); err != nil {
		return Result{}, err
	}

	requested := ""
	if ok {
		requested = q.Category
	}
	now := n.now().UTC()
	articles := make([]models.Article, 0, len(resp.Results))
	for _, item := range limit(resp.Results, q.PageSize) {
		native := item.Section
		if native == "" {
			native = item.Subsection
		}
		a := models.Article{
			Title:       item.Title,
			URL:         item.URL,
			Source:      nytSource,
			PublishedAt: parseTimestamp(item.PublishedDate, now),
			Summary:     item.Abstract,
			Topic:       nytTopic(native),
			ImageURL:    nytTopStoriesImage(item.Multimedia),
			ReadTime:    ReadTime(len(item.Abstract) * 3),
		}
		if !finalize(n.name, &a, requested) {
			continue
		}
		articles = append(articles, a)
	}
	return Result{Articles: articles, TotalResults: len(articles)}, nil
}

func nytTopic(section string) string {
	s := strings.ToLower(strings.TrimSpace(section))
	if c, ok := sectionToCategory[s]; ok {
		return c
	}
	return s
}

func nytSearchImage(media []nytMedia) string {
	for _, m := range media {
		if m.URL == "" || (m.Type != "" && m.Type != "image") {
			continue
		}
		if strings.HasPrefix(m.URL, "http://") || strings.HasPrefix(m.URL, "https://") {
			return m.URL
		}
		return nytStaticBase + strings.TrimLeft(m.URL, "/")
	}
	return nytPlaceholderImage
}

func nytTopStoriesImage(media []nytMedia) string {
	for _, format := range []string{"mediumThreeByTwo440", "default"} {
		for _, m := range media {
			if m.Format == format && m.URL != "" {
				return m.URL
			}
		}
	}
	return nytPlaceholderImage
}
