// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

/*
Package middleware provides the HTTP middleware shared by the API router.

  - RequestID: reuses or generates X-Request-ID and seeds the logging context
  - PrometheusMetrics: request counts, latency and in-flight gauge labelled by
    chi route pattern so path parameters do not explode label cardinality
  - AccessLog: one structured zerolog line per request

All three have the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
