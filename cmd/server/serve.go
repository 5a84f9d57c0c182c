// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/headlines/internal/api"
	"github.com/tomtom215/headlines/internal/logging"
	"github.com/tomtom215/headlines/internal/supervisor"
	"github.com/tomtom215/headlines/internal/supervisor/services"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background ingest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logging.Info().Str("version", version).Msg("Starting Headlines with supervisor tree")

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := api.NewHandler(api.Dependencies{
		News:         a.news,
		Recommender:  a.engine,
		Interactions: a.interactions,
		DB:           a.db,
		Providers:    a.aggregator,
		CacheBackend: a.cache.Name(),
		Version:      version,
	})

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           api.NewRouter(handler, api.RouterConfigFrom(&cfg.Security, &cfg.Server)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(logging.Logger()), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	if cfg.Ingest.Enabled {
		tree.AddDataService(services.NewIngestService(a.ingester, services.IngestConfig{
			Interval:  cfg.Ingest.Interval,
			Timeout:   cfg.Ingest.Timeout,
			OnStartup: cfg.Ingest.OnStartup,
		}, logging.Logger()))
		logging.Info().Dur("interval", cfg.Ingest.Interval).Msg("Ingest service added to supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	errCh := tree.ServeBackground(ctx)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Headlines stopped gracefully")
	return nil
}
