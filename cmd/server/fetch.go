// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Run one ingest pass and exit",
		Long:  "Fetches trending headlines for every configured category, stores them and precomputes missing embeddings.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if cfg.Ingest.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Ingest.Timeout)
				defer cancel()
			}

			res, err := a.ingester.RunOnce(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "fetched %d, written %d, embedded %d in %s\n",
				res.Fetched, res.Written, res.Embedded, res.Duration.Round(time.Millisecond))
			return nil
		},
	}
}
