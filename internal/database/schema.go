// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaTimeout bounds schema creation.
const schemaTimeout = 60 * time.Second

// Table names.
const (
	tableArticles     = "articles"
	tableEmbeddings   = "article_embeddings"
	tableInteractions = "user_interactions"
)

// InitSchema creates every table and index that does not exist yet. It is
// idempotent and safe to call on a populated database.
func (db *DB) InitSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, schemaTimeout)
	defer cancel()

	for _, q := range tableQueries() {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return unavailable("create table", err)
		}
	}
	for _, q := range indexQueries() {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return unavailable("create index", err)
		}
	}
	return nil
}

// tableQueries returns the CREATE TABLE statements.
//
// Interactions do not declare a foreign key on articles: interactions can be
// recorded for articles that were only ever served from a provider page, and
// DuckDB forbids updating referenced rows.
func tableQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS articles (
			id VARCHAR PRIMARY KEY,
			title VARCHAR NOT NULL,
			url VARCHAR NOT NULL UNIQUE,
			source VARCHAR,
			published_at TIMESTAMP,
			content VARCHAR,
			summary VARCHAR,
			topic VARCHAR,
			image_url VARCHAR,
			read_time VARCHAR,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS article_embeddings (
			article_id VARCHAR PRIMARY KEY,
			vector FLOAT[%d] NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`, vectorDim),
		`CREATE TABLE IF NOT EXISTS user_interactions (
			id VARCHAR PRIMARY KEY,
			user_id VARCHAR NOT NULL,
			article_id VARCHAR NOT NULL,
			interaction_type VARCHAR NOT NULL,
			timestamp TIMESTAMP NOT NULL,
			time_spent_seconds INTEGER,
			scroll_percentage DOUBLE,
			source_page VARCHAR
		)`,
	}
}

// indexQueries returns the CREATE INDEX statements. Indexed article columns
// cannot be assigned in ON CONFLICT DO UPDATE, so upserts leave source, topic
// and published_at as first written.
func indexQueries() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_topic ON articles(topic)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles(published_at)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_user_id ON user_interactions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_article_id ON user_interactions(article_id)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_timestamp ON user_interactions(timestamp)`,
	}
}

// Counts returns the row count of each table.
func (db *DB) Counts(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	out := make(map[string]int64, 3)
	for _, table := range []string{tableArticles, tableEmbeddings, tableInteractions} {
		var n int64
		// Table names come from the constant list above.
		if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, unavailable("count "+table, err)
		}
		out[table] = n
	}
	return out, nil
}
