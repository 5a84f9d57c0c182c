// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package recommend

import (
	"context"
	"sort"

	"github.com/tomtom215/headlines/internal/models"
)

const (
	preferenceHistory   = 20
	preferenceInterests = 5
	preferenceTopics    = 3
	preferenceSources   = 3
)

// Preferences summarizes the user's last 20 interactions by topic and source
// frequency. Ties keep the order in which values were first seen, newest
// interaction first.
func (e *Engine) Preferences(ctx context.Context, userID string) (models.UserPreferences, error) {
	prefs := models.UserPreferences{
		UserID:           userID,
		Interests:        []string{},
		PreferredTopics:  []string{},
		PreferredSources: []string{},
	}

	history, err := e.repo.RecentHistory(ctx, userID, e.now(), preferenceHistory)
	if err != nil {
		return prefs, err
	}
	prefs.InteractionCount = len(history)

	var topics, sources frequency
	for i := range history {
		topics.add(history[i].Topic)
		sources.add(history[i].Source)
	}
	ranked := topics.ranked()
	prefs.Interests = head(ranked, preferenceInterests)
	prefs.PreferredTopics = head(ranked, preferenceTopics)
	prefs.PreferredSources = head(sources.ranked(), preferenceSources)
	return prefs, nil
}

type frequency struct {
	counts map[string]int
	order  []string
}

func (f *frequency) add(v string) {
	if v == "" {
		return
	}
	if f.counts == nil {
		f.counts = make(map[string]int)
	}
	if _, ok := f.counts[v]; !ok {
		f.order = append(f.order, v)
	}
	f.counts[v]++
}

func (f *frequency) ranked() []string {
	out := append([]string{}, f.order...)
	sort.SliceStable(out, func(i, j int) bool {
		return f.counts[out[i]] > f.counts[out[j]]
	})
	return out
}

func head(values []string, n int) []string {
	if len(values) > n {
		return append([]string{}, values[:n]...)
	}
	return values
}
