// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package provider

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/headlines/internal/models"
)

type demoEntry struct {
	id, title, slug, source, image, topic, summary string
	age                                            time.Duration
	minutes                                        int
}

var demoEntries = []demoEntry{
	{"1001", "AI Breakthrough: New Model Achieves Human-Level Understanding", "ai-breakthrough", "Tech Daily", "AI+Breakthrough", "technology",
		"Researchers have developed a new AI model that achieves unprecedented levels of language understanding and reasoning, potentially revolutionizing how machines learn from data.",
		0, 4},
	{"1002", "Global Climate Summit Reaches Historic Agreement", "climate-summit", "World News", "Climate+Summit", "science",
		"Leaders from 195 countries have agreed to accelerate carbon emission reduction targets, pledging to cut emissions by 50% by 2030 compared to 2005 levels.",
		5 * time.Hour, 6},
	{"1003", "New Study Reveals Benefits of Mediterranean Diet", "med-diet-study", "Health Reports", "Mediterranean+Diet", "health",
		"A comprehensive 10-year study confirms that adhering to a Mediterranean diet can significantly reduce the risk of heart disease and improve longevity.",
		24 * time.Hour, 3},
	{"1004", "Space Tourism Company Announces First Civilian Mission to Mars", "mars-tourism", "Space Frontier", "Mars+Mission", "science",
		"A leading space tourism company has unveiled plans for the first civilian mission to Mars, scheduled for 2028, with tickets priced at $50 million per person.",
		48 * time.Hour, 5},
	{"1005", "Major Cybersecurity Breach Affects Millions", "cyber-breach", "Tech Security", "Cybersecurity", "technology",
		"A sophisticated cyber attack has compromised personal data of over 10 million users across multiple platforms, raising concerns about digital security measures.",
		12 * time.Hour, 4},
	{"1006", "Renewable Energy Surpasses Fossil Fuels for First Time", "renewable-milestone", "Energy Today", "Renewable+Energy", "science",
		"In a historic shift, renewable energy sources have generated more electricity than fossil fuels globally for the first time, marking a significant milestone in the transition to clean energy.",
		72 * time.Hour, 5},
	{"1007", "Major Sports League Announces Expansion Teams", "sports-expansion", "Sports Network", "Sports+League", "sports",
		"A major professional sports league has announced three new expansion teams to begin play in the 2025 season, bringing the total number of franchises to 35.",
		32 * time.Hour, 3},
	{"1008", "New Breakthrough in Quantum Computing Announced", "quantum-breakthrough", "Science Daily", "Quantum+Computing", "technology",
		"Scientists have achieved a new milestone in quantum computing, demonstrating a 1000-qubit processor capable of solving complex problems that would take classical computers millennia.",
		18 * time.Hour, 6},
	{"1009", "Global Economic Forecast Shows Strong Recovery", "economic-forecast", "Financial Times", "Economic+Forecast", "business",
		"Leading economists predict a robust global economic recovery in the coming year, with growth rates expected to exceed pre-pandemic levels in most developed nations.",
		96 * time.Hour, 4},
	{"1010", "Archaeologists Discover Ancient Lost City", "archaeological-discovery", "History Channel", "Archaeological+Discovery", "general",
		"An international team of archaeologists has uncovered the ruins of a previously unknown ancient city dating back over 4,000 years, potentially rewriting our understanding of early civilization.",
		120 * time.Hour, 5},
}

// DemoArticles returns the static fallback set with publication times
// relative to now.
func DemoArticles(now time.Time) []models.Article {
	out := make([]models.Article, 0, len(demoEntries))
	for _, e := range demoEntries {
		out = append(out, models.Article{
			ID:          e.id,
			Title:       e.title,
			URL:         "https://example.com/" + e.slug,
			Source:      e.source,
			PublishedAt: now.Add(-e.age),
			Summary:     e.summary,
			Topic:       e.topic,
			ImageURL:    "https://via.placeholder.com/720x480?text=" + e.image,
			ReadTime:    fmt.Sprintf("%d min read", e.minutes),
		})
	}
	return out
}

// DemoPage filters the demo set by a case-insensitive substring of title or
// summary and by exact topic, then returns the requested 1-indexed page.
// TotalResults is the filtered count.
func DemoPage(now time.Time, query, category string, page, pageSize int) models.NewsPage {
	query = strings.ToLower(query)
	category = strings.ToLower(category)

	filtered := make([]models.Article, 0, len(demoEntries))
	for _, a := range DemoArticles(now) {
		if query != "" && !strings.Contains(strings.ToLower(a.Title), query) &&
			!strings.Contains(strings.ToLower(a.Summary), query) {
			continue
		}
		if category != "" && a.Topic != category {
			continue
		}
		filtered = append(filtered, a)
	}

	if page < 1 {
		page = 1
	}
	start, end := pageBounds(page, pageSize, len(filtered))

	return models.NewsPage{
		Articles:     filtered[start:end],
		TotalResults: len(filtered),
		Page:         page,
		PageSize:     pageSize,
	}
}

// pageBounds returns the slice bounds of a 1-indexed page over n items,
// clamped to [0, n] without overflowing for large pages.
func pageBounds(page, pageSize, n int) (int, int) {
	if pageSize < 1 {
		return 0, 0
	}
	pages := n / pageSize
	if n%pageSize != 0 {
		pages++
	}
	if page-1 >= pages {
		return n, n
	}
	start := (page - 1) * pageSize
	return start, start + min(pageSize, n-start)
}

// IsDemoArticle reports whether a belongs to the static fallback set.
func IsDemoArticle(a *models.Article) bool {
	return strings.HasPrefix(a.URL, "https://example.com/")
}
