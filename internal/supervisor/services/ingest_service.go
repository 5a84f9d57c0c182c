// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/headlines/internal/ingest"
)

// Ingester runs one ingest pass.
type Ingester interface {
	RunOnce(ctx context.Context) (ingest.Result, error)
}

// IngestConfig controls the ingest loop.
type IngestConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	OnStartup bool
}

// IngestService runs an Ingester on a fixed interval. A failed pass is
// logged and does not stop the loop.
type IngestService struct {
	ingester Ingester
	config   IngestConfig
	logger   zerolog.Logger
}

// NewIngestService creates the service. Interval defaults to 30 minutes.
func NewIngestService(ingester Ingester, config IngestConfig, logger zerolog.Logger) *IngestService {
	if config.Interval <= 0 {
		config.Interval = 30 * time.Minute
	}
	return &IngestService{
		ingester: ingester,
		config:   config,
		logger:   logger.With().Str("service", "ingest").Logger(),
	}
}

// Serve implements suture.Service.
func (s *IngestService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Bool("on_startup", s.config.OnStartup).
		Msg("ingest service started")

	if s.config.OnStartup {
		s.runOnce(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("ingest service stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *IngestService) runOnce(ctx context.Context) {
	runCtx := ctx
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	if _, err := s.ingester.RunOnce(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn().Err(err).Msg("ingest pass failed")
	}
}

func (s *IngestService) String() string {
	return "ingest"
}
