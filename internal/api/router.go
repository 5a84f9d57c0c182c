// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/headlines/internal/config"
	"github.com/tomtom215/headlines/internal/middleware"
	"github.com/tomtom215/headlines/internal/models"
)

// RouterConfig holds the middleware settings of the router.
type RouterConfig struct {
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool

	// RequestTimeout bounds handler execution on /api routes. Zero disables it.
	RequestTimeout time.Duration
}

// RouterConfigFrom builds a RouterConfig from application settings.
func RouterConfigFrom(sec *config.SecurityConfig, srv *config.ServerConfig) RouterConfig {
	return RouterConfig{
		CORSOrigins:       sec.CORSOrigins,
		RateLimitRequests: sec.RateLimitReqs,
		RateLimitWindow:   sec.RateLimitWindow,
		RateLimitDisabled: sec.RateLimitDisabled,
		RequestTimeout:    srv.Timeout,
	}
}

// NewRouter returns the HTTP handler for every route.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "Retry-After"},
		MaxAge:         86400,
	}))

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimit(cfg))
		r.Use(chimiddleware.Compress(5))
		if cfg.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
		}

		r.Route("/news", func(r chi.Router) {
			r.Get("/search", h.Search)
			r.Get("/trending", h.Trending)
			r.Get("/topics/{topic}", h.Topic)
			r.Get("/articles/{id}", h.Article)
			r.Get("/recommendations", h.RecommendationsGet)
			r.Post("/recommendations", h.RecommendationsPost)
			r.Get("/algorithms", h.Algorithms)
		})
		r.Post("/user/interaction", h.RecordInteraction)
		r.Post("/db/init", h.InitDatabase)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, &models.APIError{Code: CodeNotFound, Message: "Route not found"})
	})

	return r
}

// rateLimit limits /api requests per client IP. RealIP runs first, so the
// key is the forwarded address behind a proxy.
func rateLimit(cfg RouterConfig) func(http.Handler) http.Handler {
	if cfg.RateLimitDisabled || cfg.RateLimitRequests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	window := cfg.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	return httprate.Limit(
		cfg.RateLimitRequests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			respondError(w, http.StatusTooManyRequests, &models.APIError{
				Code:    CodeRateLimited,
				Message: "Too many requests",
			})
		}),
	)
}
