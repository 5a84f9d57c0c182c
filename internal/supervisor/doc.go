// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

/*
Package supervisor runs the long-lived services of the server under a suture
v4 supervisor tree.

	root ("headlines")
	├── data-layer
	│   └── IngestService (if INGEST_ENABLED)
	└── api-layer
	    └── HTTPServerService

A crash in the ingest loop is restarted with backoff without touching the
HTTP server, and the reverse. Supervisor events are logged through
sutureslog using the slog adapter in package logging.
*/
package supervisor
