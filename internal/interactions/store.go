// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

// Package interactions appends user engagement records and invalidates the
// cached recommendations that depend on them.
package interactions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/headlines/internal/logging"
	"github.com/tomtom215/headlines/internal/metrics"
	"github.com/tomtom215/headlines/internal/models"
	"github.com/tomtom215/headlines/internal/recommend"
	"github.com/tomtom215/headlines/internal/validation"
)

// Input is one interaction as submitted by a client.
type Input struct {
	UserID           string                 `json:"user_id" validate:"required,userid,max=256"`
	ArticleID        string                 `json:"article_id" validate:"required,max=256"`
	Type             models.InteractionType `json:"interaction_type" validate:"omitempty,interaction_type"`
	TimeSpentSeconds *int                   `json:"time_spent,omitempty" validate:"omitempty,gte=0"`
	ScrollPercentage *float64               `json:"scroll_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	SourcePage       *string                `json:"source_page,omitempty" validate:"omitempty,max=512"`
}

// Writer persists interactions.
type Writer interface {
	InsertInteraction(ctx context.Context, in *models.UserInteraction) error
}

// Invalidator evicts cached results by key prefix, including results still
// being computed. *cache.Loader implements it.
type Invalidator interface {
	Invalidate(ctx context.Context, prefixes ...string) int
}

// Store appends interactions.
type Store struct {
	db     Writer
	cache  Invalidator
	logger zerolog.Logger
	now    func() time.Time
}

// NewStore creates a Store.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewStore(db Writer, c Invalidator, logger zerolog.Logger) *Store {
	return &Store{
		db:     db,
		cache:  c,
		logger: logging.Component(logger, "interactions"),
		now:    time.Now,
	}
}

// Append validates and records in, then evicts the user's cached
// collaborative, diverse and hybrid results. It returns the new record id.
// Invalid input yields a *validation.RequestValidationError.
func (s *Store) Append(ctx context.Context, in Input) (string, error) {
	if verr := validation.ValidateStruct(&in); verr != nil {
		return "", verr
	}
	if in.Type == "" {
		in.Type = models.DefaultInteractionType
	}

	record := &models.UserInteraction{
		ID:               uuid.NewString(),
		UserID:           in.UserID,
		ArticleID:        in.ArticleID,
		Type:             in.Type,
		Timestamp:        s.now().UTC(),
		TimeSpentSeconds: in.TimeSpentSeconds,
		ScrollPercentage: in.ScrollPercentage,
		SourcePage:       in.SourcePage,
	}
	if err := s.db.InsertInteraction(ctx, record); err != nil {
		return "", err
	}
	metrics.InteractionsRecorded.WithLabelValues(string(record.Type)).Inc()

	evicted := s.evictUser(ctx, record.UserID)
	s.logger.Debug().
		Str("interaction_id", record.ID).
		Str("user_id", record.UserID).
		Str("article_id", record.ArticleID).
		Str("type", string(record.Type)).
		Int("evicted_keys", evicted).
		Msg("Interaction recorded")

	return record.ID, nil
}

func (s *Store) evictUser(ctx context.Context, userID string) int {
	return s.cache.Invalidate(ctx, recommend.UserCachePrefixes(userID)...)
}
