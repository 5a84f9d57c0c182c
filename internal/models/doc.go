// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

// Package models defines the data structures shared across Headlines packages:
// articles and their embeddings, user interactions, paginated news envelopes and
// the standard API response wrapper.
//
// Models carry JSON tags in the camelCase shape served to clients. Database
// column mapping lives in the database package, which scans into these types
// explicitly.
package models
