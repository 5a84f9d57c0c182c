// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package database

import (
	"context"
	"time"

	"github.com/tomtom215/headlines/internal/models"
)

// Neighbor is a user who interacted with at least one article in common with
// a target user.
type Neighbor struct {
	UserID string
	Shared int
}

// ArticleActivity is an article with its interaction count inside a window.
type ArticleActivity struct {
	Article      models.Article
	Interactions int
}

// HistoryEntry is one interaction joined with the article it refers to.
type HistoryEntry struct {
	Interaction models.UserInteraction
	Title       string
	Topic       string
	Source      string
}

// InsertInteraction appends one interaction inside a transaction. The row is
// never updated afterwards.
func (db *DB) InsertInteraction(ctx context.Context, in *models.UserInteraction) (err error) {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()
	start := time.Now()
	defer func() { _ = observe("insert", tableInteractions, start, err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return writeFailed("begin interaction", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logRollback(rbErr, err)
			}
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_interactions (
			id, user_id, article_id, interaction_type, timestamp,
			time_spent_seconds, scroll_percentage, source_page
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.UserID, in.ArticleID, string(in.Type), in.Timestamp.UTC(),
		in.TimeSpentSeconds, in.ScrollPercentage, in.SourcePage,
	)
	if err != nil {
		return writeFailed("insert interaction", err)
	}
	if err = tx.Commit(); err != nil {
		return writeFailed("commit interaction", err)
	}
	return nil
}

// UserArticleIDs returns the distinct articles userID interacted with up to
// asOf, sorted by id.
func (db *DB) UserArticleIDs(ctx context.Context, userID string, asOf time.Time) ([]string, error) {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT DISTINCT article_id FROM user_interactions
		WHERE user_id = ? AND timestamp <= ?
		ORDER BY article_id`, userID, asOf.UTC())
	if err != nil {
		return nil, observe("user_articles", tableInteractions, start, unavailable("user articles", err))
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, unavailable("scan article id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate user articles", err)
	}
	_ = observe("user_articles", tableInteractions, start, nil)
	return ids, nil
}

// Neighbors returns up to limit other users who interacted with any article
// userID interacted with, most shared articles first, ties by user id.
func (db *DB) Neighbors(ctx context.Context, userID string, asOf time.Time, limit int) ([]Neighbor, error) {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx, `
		WITH mine AS (
			SELECT DISTINCT article_id FROM user_interactions
			WHERE user_id = ? AND timestamp <= ?
		)
		SELECT i.user_id, COUNT(DISTINCT i.article_id) AS shared
		FROM user_interactions i
		JOIN mine m ON m.article_id = i.article_id
		WHERE i.user_id <> ? AND i.timestamp <= ?
		GROUP BY i.user_id
		ORDER BY shared DESC, i.user_id
		LIMIT ?`, userID, asOf.UTC(), userID, asOf.UTC(), limit)
	if err != nil {
		return nil, observe("neighbors", tableInteractions, start, unavailable("neighbors", err))
	}
	defer rows.Close()

	var out []Neighbor
	for rows.Next() {
		var n Neighbor
		if err := rows.Scan(&n.UserID, &n.Shared); err != nil {
			return nil, unavailable("scan neighbor", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate neighbors", err)
	}
	_ = observe("neighbors", tableInteractions, start, nil)
	return out, nil
}

// UserArticleSets returns, for each of userIDs, the distinct articles they
// interacted with up to asOf.
func (db *DB) UserArticleSets(ctx context.Context, userIDs []string, asOf time.Time) (map[string][]string, error) {
	out := make(map[string][]string, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	ctx, cancel := db.queryContext(ctx)
	defer cancel()
	start := time.Now()

	args := append(stringArgs(userIDs), asOf.UTC())
	rows, err := db.conn.QueryContext(ctx, `
		SELECT DISTINCT user_id, article_id FROM user_interactions
		WHERE user_id IN (`+placeholders(len(userIDs))+`) AND timestamp <= ?
		ORDER BY user_id, article_id`, args...)
	if err != nil {
		return nil, observe("user_sets", tableInteractions, start, unavailable("user article sets", err))
	}
	defer rows.Close()

	for rows.Next() {
		var user, article string
		if err := rows.Scan(&user, &article); err != nil {
			return nil, unavailable("scan user article", err)
		}
		out[user] = append(out[user], article)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate user article sets", err)
	}
	_ = observe("user_sets", tableInteractions, start, nil)
	return out, nil
}

// HasInteractions reports whether userID has any interaction up to asOf.
func (db *DB) HasInteractions(ctx context.Context, userID string, asOf time.Time) (bool, error) {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	var exists bool
	err := db.conn.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM user_interactions WHERE user_id = ? AND timestamp <= ?)`,
		userID, asOf.UTC()).Scan(&exists)
	if err != nil {
		return false, unavailable("has interactions", err)
	}
	return exists, nil
}

// ArticleActivitySince returns articles published in [since, asOf] with the
// number of interactions each received in the same window, optionally
// restricted to one topic.
func (db *DB) ArticleActivitySince(ctx context.Context, since, asOf time.Time, topic string) ([]ArticleActivity, error) {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()
	start := time.Now()

	query := `
		SELECT ` + articleColumns + `, COUNT(i.id) AS interactions
		FROM articles a
		LEFT JOIN user_interactions i
			ON i.article_id = a.id AND i.timestamp >= ? AND i.timestamp <= ?
		WHERE a.published_at >= ? AND a.published_at <= ?`
	args := []any{since.UTC(), asOf.UTC(), since.UTC(), asOf.UTC()}
	if topic != "" {
		query += ` AND a.topic = ?`
		args = append(args, topic)
	}
	query += ` GROUP BY ALL`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, observe("activity", tableArticles, start, unavailable("article activity", err))
	}
	defer rows.Close()

	var out []ArticleActivity
	for rows.Next() {
		var count int
		a, err := scanArticle(rows, &count)
		if err != nil {
			return nil, unavailable("scan activity", err)
		}
		out = append(out, ArticleActivity{Article: a, Interactions: count})
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate activity", err)
	}
	_ = observe("activity", tableArticles, start, nil)
	return out, nil
}

// RecentHistory returns the user's latest interactions up to asOf, newest
// first, joined with article metadata when the article is stored.
func (db *DB) RecentHistory(ctx context.Context, userID string, asOf time.Time, limit int) ([]HistoryEntry, error) {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()
	start := time.Now()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT i.id, i.user_id, i.article_id, i.interaction_type, i.timestamp,
			COALESCE(a.title, ''), COALESCE(a.topic, ''), COALESCE(a.source, '')
		FROM user_interactions i
		LEFT JOIN articles a ON a.id = i.article_id
		WHERE i.user_id = ? AND i.timestamp <= ?
		ORDER BY i.timestamp DESC, i.id
		LIMIT ?`, userID, asOf.UTC(), limit)
	if err != nil {
		return nil, observe("history", tableInteractions, start, unavailable("recent history", err))
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var (
			h     HistoryEntry
			itype string
		)
		if err := rows.Scan(&h.Interaction.ID, &h.Interaction.UserID, &h.Interaction.ArticleID,
			&itype, &h.Interaction.Timestamp, &h.Title, &h.Topic, &h.Source); err != nil {
			return nil, unavailable("scan history", err)
		}
		h.Interaction.Type = models.InteractionType(itype)
		h.Interaction.Timestamp = h.Interaction.Timestamp.UTC()
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate history", err)
	}
	_ = observe("history", tableInteractions, start, nil)
	return out, nil
}
