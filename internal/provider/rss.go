// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package provider

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/headlines/internal/config"
	"github.com/tomtom215/headlines/internal/logging"
	"github.com/tomtom215/headlines/internal/models"
)

// maxFeedConcurrency bounds parallel feed downloads.
const maxFeedConcurrency = 4

// RSS serves articles from a fixed list of RSS/Atom feeds. Search filters
// feed items by substring, Headlines returns the newest items.
type RSS struct {
	adapter
	feeds []string
}

// NewRSS creates the feed adapter for the given feed URLs.
func NewRSS(feeds []string, opts Options) *RSS {
	return &RSS{adapter: newAdapter(NameRSS, opts), feeds: feeds}
}

// Search returns feed items whose title or description contains q.Text.
func (r *RSS) Search(ctx context.Context, q Query) (Result, error) {
	needle := strings.ToLower(strings.TrimSpace(q.Text))
	return r.collect(ctx, q, func(a *models.Article) bool {
		if needle == "" {
			return true
		}
		return strings.Contains(strings.ToLower(a.Title), needle) ||
			strings.Contains(strings.ToLower(a.Summary), needle)
	})
}

// Headlines returns the newest feed items, restricted to the category when
// the feed tags items with it.
func (r *RSS) Headlines(ctx context.Context, q Query) (Result, error) {
	category := strings.ToLower(q.Category)
	return r.collect(ctx, q, func(a *models.Article) bool {
		return category == "" || a.Topic == category
	})
}

func (r *RSS) collect(ctx context.Context, q Query, keep func(*models.Article) bool) (Result, error) {
	var (
		mu       sync.Mutex
		articles []models.Article
		failed   int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxFeedConcurrency)
	for _, feedURL := range r.feeds {
		g.Go(func() error {
			items, err := r.fetchFeed(gctx, feedURL)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				logging.Warn().Err(err).Str("feed", feedURL).Msg("Feed fetch failed")
				return nil
			}
			for i := range items {
				if keep(&items[i]) {
					articles = append(articles, items[i])
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	if failed == len(r.feeds) && len(r.feeds) > 0 {
		return Result{}, fmt.Errorf("%w: all %d feeds failed", ErrUnavailable, failed)
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})
	articles = limit(articles, q.PageSize)
	return Result{Articles: articles, TotalResults: len(articles)}, nil
}

func (r *RSS) fetchFeed(ctx context.Context, feedURL string) ([]models.Article, error) {
	raw, err := r.client.GetRaw(ctx, feedURL, nil)
	if err != nil {
		return nil, err
	}
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	now := r.now().UTC()
	articles := make([]models.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		pub := now
		if item.PublishedParsed != nil {
			pub = item.PublishedParsed.UTC()
		} else if item.UpdatedParsed != nil {
			pub = item.UpdatedParsed.UTC()
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		summary = stripTags(summary)

		a := models.Article{
			Title:       item.Title,
			URL:         item.Link,
			Source:      feed.Title,
			PublishedAt: pub,
			Content:     item.Content,
			Summary:     summary,
			Topic:       feedTopic(item.Categories),
			ReadTime:    ReadTime(max(len(item.Content), len(summary))),
		}
		if item.Image != nil {
			a.ImageURL = item.Image.URL
		} else if feed.Image != nil {
			a.ImageURL = feed.Image.URL
		}
		if a.Source == "" {
			a.Source = "RSS"
		}
		if !finalize(r.name, &a, "") {
			continue
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// feedTopic returns the first item category that is a known category.
func feedTopic(categories []string) string {
	for _, c := range categories {
		c = strings.ToLower(strings.TrimSpace(c))
		if config.IsCategory(c) {
			return c
		}
	}
	return ""
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
