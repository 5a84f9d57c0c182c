// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/headlines/internal/database"
	"github.com/tomtom215/headlines/internal/logging"
)

func newInitDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the database schema and exit",
		Long:  "Creates the articles, article_embeddings and user_interactions tables and their indexes. Safe to run repeatedly.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// database.New creates the schema.
			db, err := database.New(&cfg.Database)
			if err != nil {
				return fmt.Errorf("initialize database: %w", err)
			}
			defer closeLogged("database", db)

			counts, err := db.Counts(cmd.Context())
			if err != nil {
				return err
			}
			logging.Info().Str("path", cfg.Database.Path).Msg("Database schema ready")
			for _, table := range []string{"articles", "article_embeddings", "user_interactions"} {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %d rows\n", table, counts[table])
			}
			return nil
		},
	}
}
