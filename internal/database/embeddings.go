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
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/headlines/internal/models"
)

const vectorDim = models.EmbeddingDimension

// ErrDimension is returned when a vector does not have EmbeddingDimension
// components.
var ErrDimension = fmt.Errorf("vector must have %d dimensions", vectorDim)

// GetEmbedding returns the stored vector for articleID, or ErrNotFound.
func (db *DB) GetEmbedding(ctx context.Context, articleID string) (models.ArticleEmbedding, error) {
	ctx, cancel := db.queryContext(ctx)
	defer cancel()
	start := time.Now()

	var (
		literal string
		emb     = models.ArticleEmbedding{ArticleID: articleID}
	)
	err := db.conn.QueryRowContext(ctx,
		`SELECT CAST(vector AS VARCHAR), updated_at FROM article_embeddings WHERE article_id = ?`, articleID,
	).Scan(&literal, &emb.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		_ = observe("get", tableEmbeddings, start, nil)
		return models.ArticleEmbedding{}, fmt.Errorf("embedding %s: %w", articleID, ErrNotFound)
	}
	if err != nil {
		return models.ArticleEmbedding{}, observe("get", tableEmbeddings, start, unavailable("get embedding", err))
	}

	emb.Vector, err = parseVector(literal)
	if err != nil {
		return models.ArticleEmbedding{}, observe("get", tableEmbeddings, start, unavailable("decode embedding", err))
	}
	emb.UpdatedAt = emb.UpdatedAt.UTC()
	_ = observe("get", tableEmbeddings, start, nil)
	return emb, nil
}

// UpsertEmbedding stores vector for articleID, replacing any previous one.
func (db *DB) UpsertEmbedding(ctx context.Context, articleID string, vector []float32) error {
	if len(vector) != vectorDim {
		return fmt.Errorf("%w: got %d", ErrDimension, len(vector))
	}
	ctx, cancel := db.queryContext(ctx)
	defer cancel()
	start := time.Now()

	_, err := db.conn.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO article_embeddings (article_id, vector, updated_at)
		VALUES (?, CAST(? AS FLOAT[%d]), ?)
		ON CONFLICT (article_id) DO UPDATE SET
			vector = EXCLUDED.vector,
			updated_at = EXCLUDED.updated_at`, vectorDim),
		articleID, formatVector(vector), db.now().UTC())
	if err != nil {
		return observe("upsert", tableEmbeddings, start, writeFailed("upsert embedding", err))
	}
	_ = observe("upsert", tableEmbeddings, start, nil)
	return nil
}

// SimilarArticles ranks every other article with a stored vector by cosine
// similarity to vector, highest first, and returns the top k. The article
// excludeID is never returned.
func (db *DB) SimilarArticles(ctx context.Context, vector []float32, excludeID string, k int) ([]models.ScoredArticle, error) {
	if len(vector) != vectorDim {
		return nil, fmt.Errorf("%w: got %d", ErrDimension, len(vector))
	}
	if k <= 0 {
		return nil, nil
	}
	ctx, cancel := db.queryContext(ctx)
	defer cancel()
	start := time.Now()

	query := fmt.Sprintf(`
		SELECT %s, array_cosine_similarity(e.vector, CAST(? AS FLOAT[%d])) AS similarity
		FROM article_embeddings e
		JOIN articles a ON a.id = e.article_id
		WHERE e.article_id <> ?
		ORDER BY similarity DESC, a.id
		LIMIT ?`, articleColumns, vectorDim)

	rows, err := db.conn.QueryContext(ctx, query, formatVector(vector), excludeID, k)
	if err != nil {
		return nil, observe("similar", tableEmbeddings, start, unavailable("similar articles", err))
	}
	defer rows.Close()

	var out []models.ScoredArticle
	for rows.Next() {
		var score sql.NullFloat64
		a, err := scanArticle(rows, &score)
		if err != nil {
			return nil, unavailable("scan similar", err)
		}
		out = append(out, models.ScoredArticle{Article: a, Score: score.Float64})
	}
	if err := rows.Err(); err != nil {
		return nil, observe("similar", tableEmbeddings, start, unavailable("iterate similar", err))
	}
	_ = observe("similar", tableEmbeddings, start, nil)
	return out, nil
}

// formatVector renders v as a DuckDB array literal.
func formatVector(v []float32) string {
	var b strings.Builder
	b.Grow(len(v) * 10)
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// parseVector reads the VARCHAR form of a FLOAT array.
func parseVector(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}
