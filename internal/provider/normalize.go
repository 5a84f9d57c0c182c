// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package provider

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/headlines/internal/config"
	"github.com/tomtom215/headlines/internal/metrics"
	"github.com/tomtom215/headlines/internal/models"
)

// PlaceholderImage is used when a provider supplies no image.
const PlaceholderImage = "https://via.placeholder.com/720x480?text=No+Image"

const (
	charsPerWord   = 6
	wordsPerMinute = 225
	articleIDLen   = 16
)

// ArticleID derives a stable article id from its canonical URL.
func ArticleID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])[:articleIDLen]
}

// ReadTime estimates reading time from a character count and formats it as
// "N min read". The result is never below one minute.
func ReadTime(chars int) string {
	words := float64(chars) / charsPerWord
	minutes := int(math.Round(words / wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// PlaceholderTopic picks a category for an article the provider did not
// classify. The choice depends only on the URL.
func PlaceholderTopic(url string) string {
	sum := sha256.Sum256([]byte(url))
	return config.Categories[int(sum[0])%len(config.Categories)]
}

// resolveTopic picks the article topic: the provider-native value when
// present, then the requested category, then a placeholder.
func resolveTopic(native, requested, url string) string {
	if t := strings.ToLower(strings.TrimSpace(native)); t != "" {
		return t
	}
	if requested != "" {
		return strings.ToLower(requested)
	}
	return PlaceholderTopic(url)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// parseTimestamp accepts the date formats the providers emit, including unix
// seconds. Unparseable or empty input yields fallback.
func parseTimestamp(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC()
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return fallback
}

// finalize fills derived fields and reports whether the record is usable.
// Records without a URL or title are counted as malformed and dropped.
func finalize(provider string, a *models.Article, requested string) bool {
	a.URL = strings.TrimSpace(a.URL)
	a.Title = strings.TrimSpace(a.Title)
	if a.URL == "" || a.Title == "" {
		metrics.ProviderMalformedRecords.WithLabelValues(provider).Inc()
		return false
	}
	if a.ID == "" {
		a.ID = ArticleID(a.URL)
	}
	a.Topic = resolveTopic(a.Topic, requested, a.URL)
	if a.ImageURL == "" {
		a.ImageURL = PlaceholderImage
	}
	return true
}

// limit truncates items to n when n is positive.
func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
