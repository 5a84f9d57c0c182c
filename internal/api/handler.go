// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package api

import (
	"context"

	"github.com/tomtom215/headlines/internal/interactions"
	"github.com/tomtom215/headlines/internal/models"
	"github.com/tomtom215/headlines/internal/quota"
	"github.com/tomtom215/headlines/internal/recommend"
)

// NewsService serves cached news pages and article lookups.
type NewsService interface {
	Search(ctx context.Context, query string, page, pageSize int) (models.NewsPage, bool, error)
	Trending(ctx context.Context, category string, page, pageSize int) (models.NewsPage, bool, error)
	Topic(ctx context.Context, topic string, page, pageSize int) (models.NewsPage, bool, error)
	Article(ctx context.Context, id string) (models.Article, bool, error)
}

// Recommender produces recommendations.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
}

// InteractionRecorder appends user interactions.
type InteractionRecorder interface {
	Append(ctx context.Context, in interactions.Input) (string, error)
}

// Datastore is the schema and liveness surface of the database.
type Datastore interface {
	InitSchema(ctx context.Context) error
	Ping(ctx context.Context) error
}

// ProviderReporter exposes upstream provider state for /health.
type ProviderReporter interface {
	Quotas() []quota.Status
	CircuitStates() map[string]bool
}

// Handler holds the dependencies of every route.
type Handler struct {
	news         NewsService
	recommender  Recommender
	interactions InteractionRecorder
	db           Datastore
	providers    ProviderReporter
	cacheBackend string
	version      string
}

// Dependencies groups the services NewHandler wires together.
type Dependencies struct {
	News         NewsService
	Recommender  Recommender
	Interactions InteractionRecorder
	DB           Datastore
	Providers    ProviderReporter
	CacheBackend string
	Version      string
}

// NewHandler creates a Handler.
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		news:         deps.News,
		recommender:  deps.Recommender,
		interactions: deps.Interactions,
		db:           deps.DB,
		providers:    deps.Providers,
		cacheBackend: deps.CacheBackend,
		version:      deps.Version,
	}
}
