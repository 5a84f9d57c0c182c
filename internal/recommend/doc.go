// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

// Package recommend ranks stored articles for a reader.
//
// # Algorithms
//
//   - content_based: cosine similarity of article embeddings to a seed article
//   - collaborative: Jaccard-weighted votes of users with overlapping history
//   - trending:      (interactions + 1) / (hours since publication + 1)
//   - diverse:       one article per topic from a base pool, then fill
//   - hybrid:        position-weighted blend of the four above
//
// Every algorithm result is cached under a key that encodes all of its
// inputs. Concurrent misses on one key are collapsed by cache.Loader.
//
// # Snapshots
//
// Each computation captures asOf once when it starts and bounds every
// interaction query by it, so interactions written while it runs are not
// seen. A computation that overlaps an interaction write for its user is
// not cached, since the write invalidates the user's keys (see
// cache.Loader.Invalidate).
//
// # Failure handling
//
// A missing seed embedding, an unknown user or an empty corpus produce an
// empty result. Datastore failures are returned, also from a hybrid call.
// Inside a hybrid call each sub-algorithm runs under its own timeout; one
// that otherwise fails or times out contributes nothing, and the blend built
// from the rest is served without being cached.
package recommend
