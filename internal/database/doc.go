// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

/*
Package database provides the DuckDB datastore for articles, article
embeddings and user interactions.

# Tables

  - articles: normalized articles keyed by the URL-derived id, URL unique
  - article_embeddings: one FLOAT[384] vector per article, overwritten on recompute
  - user_interactions: append-only engagement records

# Similarity Search

Vectors are stored as fixed-size DuckDB arrays so that nearest neighbours can
be ranked in SQL with array_cosine_similarity. Vectors are bound as array
literals and cast to FLOAT[384].

# Snapshots

Every interaction read takes an asOf bound (timestamp <= asOf). The
recommendation engine captures asOf once per call, so interactions appended
while it runs are not observed.

# Errors

Failures to reach or query DuckDB are wrapped in ErrUnavailable, failed writes
in ErrWriteFailed, and missing rows are reported as ErrNotFound.
*/
package database
