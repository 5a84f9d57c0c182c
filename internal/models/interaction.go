// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package models

import (
	"time"
)

// InteractionType is the kind of engagement a user had with an article.
type InteractionType string

// Interaction types accepted by the interaction store.
const (
	InteractionView     InteractionType = "view"
	InteractionLike     InteractionType = "like"
	InteractionShare    InteractionType = "share"
	InteractionBookmark InteractionType = "bookmark"
	InteractionRead     InteractionType = "read"
	InteractionClick    InteractionType = "click"
)

// DefaultInteractionType is recorded when the caller omits a type.
const DefaultInteractionType = InteractionRead

// InteractionTypes lists every valid interaction type.
var InteractionTypes = []InteractionType{
	InteractionView, InteractionLike, InteractionShare,
	InteractionBookmark, InteractionRead, InteractionClick,
}

// Valid reports whether t is a known interaction type.
func (t InteractionType) Valid() bool {
	for _, v := range InteractionTypes {
		if t == v {
			return true
		}
	}
	return false
}

// UserInteraction is one immutable engagement record.
type UserInteraction struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	ArticleID        string          `json:"articleId"`
	Type             InteractionType `json:"interactionType"`
	Timestamp        time.Time       `json:"timestamp"`
	TimeSpentSeconds *int            `json:"timeSpentSeconds,omitempty"`
	ScrollPercentage *float64        `json:"scrollPercentage,omitempty"`
	SourcePage       *string         `json:"sourcePage,omitempty"`
}

// UserPreferences summarizes a user's recent reading.
type UserPreferences struct {
	UserID           string   `json:"userId"`
	Interests        []string `json:"interests"`
	PreferredTopics  []string `json:"preferredTopics"`
	PreferredSources []string `json:"preferredSources"`
	InteractionCount int      `json:"interactionCount"`
}
