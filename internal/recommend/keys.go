// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package recommend

import (
	"strconv"
	"strings"
	"time"
)

// Cache TTLs per algorithm.
const (
	ResultTTL   = time.Hour
	TrendingTTL = 30 * time.Minute
)

// Cache key namespaces.
const (
	prefixContent       = "content_recommendations:"
	prefixCollaborative = "collaborative_recommendations:"
	prefixTrending      = "trending_recommendations:"
	prefixDiverse       = "diverse_recommendations:"
	prefixHybrid        = "hybrid_recommendations:"
)

func contentKey(articleID string, k int) string {
	return prefixContent + articleID + ":" + strconv.Itoa(k)
}

func collaborativeKey(userID string, k int) string {
	return prefixCollaborative + userID + ":" + strconv.Itoa(k)
}

func trendingKey(category string, hours, k int) string {
	return prefixTrending + category + ":" + strconv.Itoa(hours) + ":" + strconv.Itoa(k)
}

func diverseKey(userID, seedID string, k int) string {
	return prefixDiverse + userID + ":" + seedID + ":" + strconv.Itoa(k)
}

func hybridKey(userID, articleID string, interests []string, k int) string {
	return prefixHybrid + userID + ":" + articleID + ":" + strings.Join(interests, ",") + ":" + strconv.Itoa(k)
}

// UserCachePrefixes returns the key prefixes of every cached result that
// depends on userID's interactions.
func UserCachePrefixes(userID string) []string {
	return []string{
		prefixCollaborative + userID + ":",
		prefixDiverse + userID + ":",
		prefixHybrid + userID + ":",
	}
}
