// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package main

// General API information read by swag. Regenerate the served description
// with:
//
//	swag init -g cmd/server/docs.go -d ./,./internal/api -o docs --parseInternal
//
// @title Headlines API
// @version 1.0
// @description News aggregation and recommendation service.
// @description
// @description Every /api response uses one envelope:
// @description ```json
// @description {
// @description   "status": "success",
// @description   "data": {},
// @description   "metadata": {"timestamp": "2026-03-14T12:00:00Z", "query_time_ms": 4, "cached": true}
// @description }
// @description ```
// @description Errors set "status": "error" and an "error" object with code and message.
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:5000
// @BasePath /
// @schemes http https
//
// @tag.name News
// @tag.description Search, trending and topic pages and single articles
//
// @tag.name Recommendations
// @tag.description Personalised and popularity-based article recommendations
//
// @tag.name Users
// @tag.description Interaction tracking
//
// @tag.name Core
// @tag.description Health and maintenance
import _ "github.com/tomtom215/headlines/docs" // registers the OpenAPI description served at /swagger/
