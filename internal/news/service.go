// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

// Package news serves cached article pages and lookups on top of the
// provider aggregator, and persists what it fetches so the recommendation
// engine has a corpus to rank.
package news

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/headlines/internal/cache"
	"github.com/tomtom215/headlines/internal/database"
	"github.com/tomtom215/headlines/internal/logging"
	"github.com/tomtom215/headlines/internal/models"
	"github.com/tomtom215/headlines/internal/provider"
)

// Cache TTLs.
const (
	PageTTL    = 15 * time.Minute
	ArticleTTL = time.Hour
)

// articleLookupPageSize is how many trending headlines an article lookup
// scans when the article is not stored.
const articleLookupPageSize = 30

// ErrNotFound is returned when an article is neither stored nor among the
// current headlines.
var ErrNotFound = errors.New("article not found")

// Source fetches pages from upstream providers.
type Source interface {
	Search(ctx context.Context, query string, page, pageSize int) (models.NewsPage, error)
	Trending(ctx context.Context, category string, page, pageSize int) (models.NewsPage, error)
}

// Repository persists and reads articles.
type Repository interface {
	UpsertArticles(ctx context.Context, articles []models.Article) (int, error)
	GetArticle(ctx context.Context, id string) (models.Article, error)
}

// Service is the cached news front end.
type Service struct {
	source Source
	repo   Repository
	cache  cache.Store
	logger zerolog.Logger
}

// NewService creates a Service. repo may be nil, in which case nothing is
// persisted and article lookups only scan the headlines.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewService(source Source, repo Repository, c cache.Store, logger zerolog.Logger) *Service {
	return &Service{
		source: source,
		repo:   repo,
		cache:  c,
		logger: logging.Component(logger, "news"),
	}
}

func pageKey(namespace, id string, page, pageSize int) string {
	return namespace + ":" + id + ":" + strconv.Itoa(page) + ":" + strconv.Itoa(pageSize)
}

// Search returns a page of articles matching query.
func (s *Service) Search(ctx context.Context, query string, page, pageSize int) (models.NewsPage, bool, error) {
	return s.cachedPage(ctx, pageKey("search", query, page, pageSize), func(ctx context.Context) (models.NewsPage, error) {
		return s.source.Search(ctx, query, page, pageSize)
	})
}

// Trending returns a page of top headlines. An empty category means all.
func (s *Service) Trending(ctx context.Context, category string, page, pageSize int) (models.NewsPage, bool, error) {
	id := category
	if id == "" {
		id = "all"
	}
	return s.cachedPage(ctx, pageKey("trending", id, page, pageSize), func(ctx context.Context) (models.NewsPage, error) {
		return s.source.Trending(ctx, category, page, pageSize)
	})
}

// Topic returns a page of headlines for one topic.
func (s *Service) Topic(ctx context.Context, topic string, page, pageSize int) (models.NewsPage, bool, error) {
	return s.cachedPage(ctx, pageKey("topic", topic, page, pageSize), func(ctx context.Context) (models.NewsPage, error) {
		return s.source.Trending(ctx, topic, page, pageSize)
	})
}

// cachedPage serves key from the cache or fetches it. Pages that are only
// demo fallback content are returned but not cached, so recovery of the
// providers is visible immediately.
func (s *Service) cachedPage(ctx context.Context, key string, fetch func(context.Context) (models.NewsPage, error)) (models.NewsPage, bool, error) {
	if page, ok := cache.GetJSON[models.NewsPage](ctx, s.cache, key); ok {
		return page, true, nil
	}

	page, err := fetch(ctx)
	if err != nil {
		return models.NewsPage{}, false, err
	}

	live := s.persist(ctx, page.Articles)
	if live > 0 || len(page.Articles) == 0 {
		cache.SetJSON(ctx, s.cache, key, page, PageTTL)
	}
	return page, false, nil
}

// persist stores the non-demo articles and returns how many there were.
// Failures are logged and otherwise ignored.
func (s *Service) persist(ctx context.Context, articles []models.Article) int {
	live := make([]models.Article, 0, len(articles))
	for i := range articles {
		if !provider.IsDemoArticle(&articles[i]) {
			live = append(live, articles[i])
		}
	}
	if len(live) == 0 || s.repo == nil {
		return len(live)
	}

	written, err := s.repo.UpsertArticles(ctx, live)
	if err != nil {
		s.logger.Warn().Err(err).Int("articles", len(live)).Msg("Failed to persist fetched articles")
		return len(live)
	}
	s.logger.Debug().Int("fetched", len(live)).Int("written", written).Msg("Persisted fetched articles")
	return len(live)
}

// Article looks an article up in the cache, then the datastore, then the
// current top headlines.
func (s *Service) Article(ctx context.Context, id string) (models.Article, bool, error) {
	key := "article:" + id
	if a, ok := cache.GetJSON[models.Article](ctx, s.cache, key); ok {
		return a, true, nil
	}

	if s.repo != nil {
		a, err := s.repo.GetArticle(ctx, id)
		switch {
		case err == nil:
			cache.SetJSON(ctx, s.cache, key, a, ArticleTTL)
			return a, false, nil
		case errors.Is(err, database.ErrNotFound):
		default:
			s.logger.Warn().Err(err).Str("article_id", id).Msg("Datastore lookup failed, scanning headlines")
		}
	}

	page, err := s.source.Trending(ctx, "", 1, articleLookupPageSize)
	if err != nil {
		return models.Article{}, false, err
	}
	for i := range page.Articles {
		if page.Articles[i].ID == id {
			a := page.Articles[i]
			cache.SetJSON(ctx, s.cache, key, a, ArticleTTL)
			return a, false, nil
		}
	}
	return models.Article{}, false, fmt.Errorf("%w: %s", ErrNotFound, id)
}
