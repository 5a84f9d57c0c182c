// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

/*
Package api serves the Headlines HTTP API on a chi router.

Routes:

	GET  /health                          component status
	GET  /metrics                         Prometheus exposition
	GET  /api/news/search                 ?query=&page=&page_size=
	GET  /api/news/trending               ?category=&page=&page_size=
	GET  /api/news/topics/{topic}         ?page=&page_size=
	GET  /api/news/articles/{id}
	GET  /api/news/recommendations        ?article_id=&user_id=&user_interests=&algorithm=&max_results=
	POST /api/news/recommendations        same fields as a JSON body
	GET  /api/news/algorithms
	POST /api/user/interaction
	POST /api/db/init

Every JSON response uses the models.APIResponse envelope. Errors carry a
machine-readable code (VALIDATION_ERROR, NOT_FOUND, SERVICE_UNAVAILABLE,
RATE_LIMIT_EXCEEDED, INTERNAL_ERROR). A datastore outage is reported as 503
with a Retry-After header.

The /api routes are rate limited per client IP with go-chi/httprate; CORS
is handled by go-chi/cors for every route.
*/
package api
