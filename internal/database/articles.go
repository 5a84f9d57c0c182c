// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/headlines/internal/models"
)

// articleColumns is the select list matching scanArticle. The a. alias lets
// it be used in joins.
const articleColumns = `a.id, a.title, a.url, COALESCE(a.source, ''),
	COALESCE(a.published_at, a.created_at), COALESCE(a.content, ''), COALESCE(a.summary, ''),
	COALESCE(a.topic, ''), COALESCE(a.image_url, ''), COALESCE(a.read_time, ''), a.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner, extra ...any) (models.Article, error) {
	var a models.Article
	dest := append([]any{
		&a.ID, &a.Title, &a.URL, &a.Source, &a.PublishedAt, &a.Content,
		&a.Summary, &a.Topic, &a.ImageURL, &a.ReadTime, &a.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return models.Article{}, err
	}
	a.PublishedAt = a.PublishedAt.UTC()
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}

const upsertArticleQuery = `INSERT INTO articles (
		id, title, url, source, published_at, content, summary, topic, image_url, read_time, created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		title = EXCLUDED.title,
		content = EXCLUDED.content,
		summary = EXCLUDED.summary,
		image_url = EXCLUDED.image_url,
		read_time = EXCLUDED.read_time`

// UpsertArticles inserts articles, updating the mutable text fields of rows
// that already exist. It returns the number of rows written. Articles whose
// URL already belongs to another id are skipped.
func (db *DB) UpsertArticles(ctx context.Context, articles []models.Article) (written int, err error) {
	if len(articles) == 0 {
		return 0, nil
	}
	ctx, cancel := db.queryContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { _ = observe("upsert", tableArticles, start, err) }()

	const maxRetries = 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		written, err = db.upsertArticlesOnce(ctx, articles)
		if err == nil || !isTransactionConflict(err) {
			break
		}
		select {
		case <-time.After(time.Millisecond * time.Duration(1<<uint(attempt))):
		case <-ctx.Done():
			return 0, writeFailed("upsert articles", ctx.Err())
		}
	}
	if err != nil {
		return 0, writeFailed("upsert articles", err)
	}
	return written, nil
}

func (db *DB) upsertArticlesOnce(ctx context.Context, articles []models.Article) (written int, err error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logRollback(rbErr, err)
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertArticleQuery)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := db.now().UTC()
	for i := range articles {
		a := &articles[i]
		var exists bool
		if err = tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM articles WHERE url = ? AND id <> ?)`, a.URL, a.ID).Scan(&exists); err != nil {
			return 0, err
		}
		if exists {
			continue
		}
		created := a.CreatedAt
		if created.IsZero() {
			created = now
		}
		if _, err = stmt.ExecContext(ctx,
			a.ID, a.Title, a.URL, a.Source, a.PublishedAt.UTC(), a.Content, a.Summary,
			a.Topic, a.ImageURL, a.ReadTime, created.UTC(),
		); err != nil {
			return 0, err
		}
		written++
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return written, nil
}

// GetArticle returns the article with id, or ErrNotFound.
func (db *DB) GetArticle(ctx context.Context, id string) (models.Article, error) {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()
	start := time.Now()

	row := db.conn.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles a WHERE a.id = ?`, id)
	a, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		_ = observe("get", tableArticles, start, nil)
		return models.Article{}, fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Article{}, observe("get", tableArticles, start, unavailable("get article", err))
	}
	_ = observe("get", tableArticles, start, nil)
	return a, nil
}

// GetArticles returns the articles with the given ids, in unspecified order.
// Unknown ids are ignored.
func (db *DB) GetArticles(ctx context.Context, ids []string) (map[string]models.Article, error) {
	out := make(map[string]models.Article, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ctx, cancel := db.queryContext(ctx)
	defer cancel()
	start := time.Now()

	query := `SELECT ` + articleColumns + ` FROM articles a WHERE a.id IN (` + placeholders(len(ids)) + `)`
	rows, err := db.conn.QueryContext(ctx, query, stringArgs(ids)...)
	if err != nil {
		return nil, observe("get_many", tableArticles, start, unavailable("get articles", err))
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, unavailable("scan article", err)
		}
		out[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, observe("get_many", tableArticles, start, unavailable("iterate articles", err))
	}
	_ = observe("get_many", tableArticles, start, nil)
	return out, nil
}

// RecentArticles returns up to limit articles, newest first.
func (db *DB) RecentArticles(ctx context.Context, limit int) ([]models.Article, error) {
	return db.listArticles(ctx, "recent",
		`SELECT `+articleColumns+` FROM articles a
		 ORDER BY COALESCE(a.published_at, a.created_at) DESC, a.id
		 LIMIT ?`, limit)
}

// LatestPerTopic returns the newest article of each distinct non-empty
// topic, newest first, at most limit rows.
func (db *DB) LatestPerTopic(ctx context.Context, limit int) ([]models.Article, error) {
	return db.listArticles(ctx, "latest_per_topic",
		`SELECT `+articleColumns+` FROM (
			SELECT *, ROW_NUMBER() OVER (
				PARTITION BY topic ORDER BY COALESCE(published_at, created_at) DESC, id
			) AS rn
			FROM articles
			WHERE topic IS NOT NULL AND topic <> ''
		) a
		WHERE a.rn = 1
		ORDER BY COALESCE(a.published_at, a.created_at) DESC, a.id
		LIMIT ?`, limit)
}

// ArticlesWithoutEmbeddings returns ids of the newest articles that have no
// stored vector.
func (db *DB) ArticlesWithoutEmbeddings(ctx context.Context, limit int) ([]string, error) {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT a.id FROM articles a
		LEFT JOIN article_embeddings e ON e.article_id = a.id
		WHERE e.article_id IS NULL
		ORDER BY COALESCE(a.published_at, a.created_at) DESC, a.id
		LIMIT ?`, limit)
	if err != nil {
		return nil, observe("missing_embeddings", tableArticles, start, unavailable("missing embeddings", err))
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, unavailable("scan id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate ids", err)
	}
	_ = observe("missing_embeddings", tableArticles, start, nil)
	return ids, nil
}

func (db *DB) listArticles(ctx context.Context, op, query string, args ...any) ([]models.Article, error) {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, observe(op, tableArticles, start, unavailable(op, err))
	}
	defer rows.Close()

	var out []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, unavailable("scan article", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, observe(op, tableArticles, start, unavailable(op, err))
	}
	_ = observe(op, tableArticles, start, nil)
	return out, nil
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func stringArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
