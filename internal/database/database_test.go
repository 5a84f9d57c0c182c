// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package database

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/tomtom215/headlines/internal/config"
	"github.com/tomtom215/headlines/internal/models"
)

// testDBSemaphore serializes DuckDB tests. The semaphore is held for the whole
// test so only one test has an open database at a time.
var testDBSemaphore = make(chan struct{}, 1)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	type result struct {
		db  *DB
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		db, err := New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "512MB", Threads: 2})
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		t.Cleanup(func() {
			if err := res.db.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatalf("Timeout: database creation took longer than 120s")
		return nil
	}
}

var baseTime = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func testArticle(id, topic string, published time.Time) models.Article {
	return models.Article{
		ID:          id,
		Title:       "Title " + id,
		URL:         "https://example.org/" + id,
		Source:      "Source " + topic,
		PublishedAt: published,
		Summary:     "Summary " + id,
		Topic:       topic,
		ImageURL:    "https://img.example.org/" + id,
		ReadTime:    "2 min read",
	}
}

// unitVector returns a 384-dim vector pointing mostly along axis.
func unitVector(axis int, tilt float32) []float32 {
	v := make([]float32, models.EmbeddingDimension)
	v[axis] = 1
	v[(axis+1)%len(v)] = tilt
	return v
}

func insertInteraction(t *testing.T, db *DB, id, user, article string, ts time.Time) {
	t.Helper()
	err := db.InsertInteraction(context.Background(), &models.UserInteraction{
		ID: id, UserID: user, ArticleID: article, Type: models.InteractionRead, Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("InsertInteraction(%s) error = %v", id, err)
	}
}

func TestInitSchema_Idempotent(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	for i := 0; i < 2; i++ {
		if err := db.InitSchema(context.Background()); err != nil {
			t.Fatalf("InitSchema() call %d error = %v", i+1, err)
		}
	}
	counts, err := db.Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}
	for table, n := range counts {
		if n != 0 {
			t.Errorf("%s has %d rows, want 0", table, n)
		}
	}
	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestUpsertArticles_InsertAndUpdate(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	a := testArticle("a1", "science", baseTime)
	n, err := db.UpsertArticles(ctx, []models.Article{a, testArticle("a2", "sports", baseTime)})
	if err != nil || n != 2 {
		t.Fatalf("UpsertArticles() = %d, %v", n, err)
	}

	a.Title = "Updated"
	a.Topic = "health"
	if _, err := db.UpsertArticles(ctx, []models.Article{a}); err != nil {
		t.Fatalf("second UpsertArticles() error = %v", err)
	}

	got, err := db.GetArticle(ctx, "a1")
	if err != nil {
		t.Fatalf("GetArticle() error = %v", err)
	}
	if got.Title != "Updated" {
		t.Errorf("Title = %q, want Updated", got.Title)
	}
	if got.Topic != "science" {
		t.Errorf("Topic = %q, indexed column should keep its first value", got.Topic)
	}
	if !got.PublishedAt.Equal(baseTime) {
		t.Errorf("PublishedAt = %v, want %v", got.PublishedAt, baseTime)
	}

	// Same URL under another id is skipped.
	dup := testArticle("other", "science", baseTime)
	dup.URL = a.URL
	if n, err := db.UpsertArticles(ctx, []models.Article{dup}); err != nil || n != 0 {
		t.Errorf("duplicate URL upsert = %d, %v", n, err)
	}
}

func TestGetArticle_NotFound(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	_, err := db.GetArticle(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestRecentAndLatestPerTopic(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	articles := []models.Article{
		testArticle("old-sci", "science", baseTime.Add(-5*time.Hour)),
		testArticle("new-sci", "science", baseTime.Add(-1*time.Hour)),
		testArticle("sports", "sports", baseTime.Add(-3*time.Hour)),
		testArticle("untagged", "", baseTime),
	}
	if _, err := db.UpsertArticles(ctx, articles); err != nil {
		t.Fatalf("UpsertArticles() error = %v", err)
	}

	recent, err := db.RecentArticles(ctx, 2)
	if err != nil {
		t.Fatalf("RecentArticles() error = %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "untagged" || recent[1].ID != "new-sci" {
		t.Errorf("RecentArticles() = %v", ids(recent))
	}

	latest, err := db.LatestPerTopic(ctx, 10)
	if err != nil {
		t.Fatalf("LatestPerTopic() error = %v", err)
	}
	if len(latest) != 2 || latest[0].ID != "new-sci" || latest[1].ID != "sports" {
		t.Errorf("LatestPerTopic() = %v", ids(latest))
	}

	got, err := db.GetArticles(ctx, []string{"sports", "nope"})
	if err != nil || len(got) != 1 {
		t.Errorf("GetArticles() = %v, %v", got, err)
	}
}

func TestEmbeddings_RoundTripAndSimilarity(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	var articles []models.Article
	for i := 0; i < 4; i++ {
		articles = append(articles, testArticle(fmt.Sprintf("e%d", i), "technology", baseTime))
	}
	if _, err := db.UpsertArticles(ctx, articles); err != nil {
		t.Fatalf("UpsertArticles() error = %v", err)
	}

	seed := unitVector(0, 0)
	vectors := map[string][]float32{
		"e0": seed,
		"e1": unitVector(0, 0.1), // nearly identical
		"e2": unitVector(0, 1),   // 45 degrees
		"e3": unitVector(10, 0),  // orthogonal
	}
	for id, v := range vectors {
		if err := db.UpsertEmbedding(ctx, id, v); err != nil {
			t.Fatalf("UpsertEmbedding(%s) error = %v", id, err)
		}
	}

	got, err := db.GetEmbedding(ctx, "e2")
	if err != nil {
		t.Fatalf("GetEmbedding() error = %v", err)
	}
	if len(got.Vector) != models.EmbeddingDimension || got.Vector[0] != 1 || got.Vector[1] != 1 {
		t.Errorf("vector round trip mismatch: len %d, head %v", len(got.Vector), got.Vector[:2])
	}

	similar, err := db.SimilarArticles(ctx, seed, "e0", 3)
	if err != nil {
		t.Fatalf("SimilarArticles() error = %v", err)
	}
	if len(similar) != 3 {
		t.Fatalf("len = %d, want 3", len(similar))
	}
	wantOrder := []string{"e1", "e2", "e3"}
	for i, want := range wantOrder {
		if similar[i].ID != want {
			t.Errorf("similar[%d] = %s, want %s", i, similar[i].ID, want)
		}
	}
	if math.Abs(similar[1].Score-1/math.Sqrt2) > 1e-4 {
		t.Errorf("cosine(e0, e2) = %f, want %f", similar[1].Score, 1/math.Sqrt2)
	}
	for _, s := range similar {
		if s.ID == "e0" {
			t.Error("seed article returned in its own similarity list")
		}
	}

	// Recompute overwrites in place.
	if err := db.UpsertEmbedding(ctx, "e3", seed); err != nil {
		t.Fatalf("overwrite error = %v", err)
	}
	similar, _ = db.SimilarArticles(ctx, seed, "e0", 1)
	if len(similar) != 1 || (similar[0].ID != "e3" && similar[0].ID != "e1") {
		t.Errorf("after overwrite top = %v", similar)
	}

	missing, err := db.ArticlesWithoutEmbeddings(ctx, 10)
	if err != nil || len(missing) != 0 {
		t.Errorf("ArticlesWithoutEmbeddings() = %v, %v", missing, err)
	}
}

func TestEmbeddings_Errors(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.UpsertEmbedding(ctx, "x", []float32{1, 2, 3}); !errors.Is(err, ErrDimension) {
		t.Errorf("short vector error = %v, want ErrDimension", err)
	}
	if _, err := db.GetEmbedding(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing embedding error = %v, want ErrNotFound", err)
	}
}

func TestInteractions_SnapshotAndNeighbors(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	insertInteraction(t, db, "i1", "alice", "a1", baseTime.Add(-3*time.Hour))
	insertInteraction(t, db, "i2", "alice", "a2", baseTime.Add(-2*time.Hour))
	insertInteraction(t, db, "i3", "bob", "a1", baseTime.Add(-2*time.Hour))
	insertInteraction(t, db, "i4", "bob", "a2", baseTime.Add(-2*time.Hour))
	insertInteraction(t, db, "i5", "bob", "a3", baseTime.Add(-1*time.Hour))
	insertInteraction(t, db, "i6", "carol", "a2", baseTime.Add(-1*time.Hour))
	insertInteraction(t, db, "i7", "carol", "a4", baseTime.Add(-1*time.Hour))
	// After the snapshot point.
	insertInteraction(t, db, "i8", "alice", "a5", baseTime.Add(time.Hour))
	insertInteraction(t, db, "i9", "dave", "a1", baseTime.Add(time.Hour))

	mine, err := db.UserArticleIDs(ctx, "alice", baseTime)
	if err != nil {
		t.Fatalf("UserArticleIDs() error = %v", err)
	}
	if fmt.Sprint(mine) != "[a1 a2]" {
		t.Errorf("UserArticleIDs() = %v, want [a1 a2]", mine)
	}

	neighbors, err := db.Neighbors(ctx, "alice", baseTime, 10)
	if err != nil {
		t.Fatalf("Neighbors() error = %v", err)
	}
	want := []Neighbor{{"bob", 2}, {"carol", 1}}
	if fmt.Sprint(neighbors) != fmt.Sprint(want) {
		t.Errorf("Neighbors() = %v, want %v", neighbors, want)
	}

	sets, err := db.UserArticleSets(ctx, []string{"bob", "carol", "dave"}, baseTime)
	if err != nil {
		t.Fatalf("UserArticleSets() error = %v", err)
	}
	if fmt.Sprint(sets["bob"]) != "[a1 a2 a3]" || fmt.Sprint(sets["carol"]) != "[a2 a4]" {
		t.Errorf("UserArticleSets() = %v", sets)
	}
	if _, ok := sets["dave"]; ok {
		t.Error("dave's post-snapshot interaction was visible")
	}

	has, err := db.HasInteractions(ctx, "dave", baseTime)
	if err != nil || has {
		t.Errorf("HasInteractions(dave) = %v, %v", has, err)
	}
}

func TestArticleActivitySince(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	articles := []models.Article{
		testArticle("fresh", "science", baseTime.Add(-1*time.Hour)),
		testArticle("older", "science", baseTime.Add(-20*time.Hour)),
		testArticle("sport", "sports", baseTime.Add(-2*time.Hour)),
		testArticle("stale", "science", baseTime.Add(-48*time.Hour)),
	}
	if _, err := db.UpsertArticles(ctx, articles); err != nil {
		t.Fatalf("UpsertArticles() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		insertInteraction(t, db, fmt.Sprintf("f%d", i), fmt.Sprintf("u%d", i), "fresh", baseTime.Add(-30*time.Minute))
	}
	insertInteraction(t, db, "late", "u9", "fresh", baseTime.Add(time.Minute))

	since := baseTime.Add(-24 * time.Hour)
	activity, err := db.ArticleActivitySince(ctx, since, baseTime, "science")
	if err != nil {
		t.Fatalf("ArticleActivitySince() error = %v", err)
	}
	counts := map[string]int{}
	for _, a := range activity {
		counts[a.Article.ID] = a.Interactions
	}
	if len(counts) != 2 || counts["fresh"] != 3 || counts["older"] != 0 {
		t.Errorf("activity = %v", counts)
	}

	all, _ := db.ArticleActivitySince(ctx, since, baseTime, "")
	if len(all) != 3 {
		t.Errorf("unfiltered activity rows = %d, want 3", len(all))
	}
}

func TestRecentHistory(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.UpsertArticles(ctx, []models.Article{testArticle("h1", "health", baseTime)}); err != nil {
		t.Fatalf("UpsertArticles() error = %v", err)
	}
	insertInteraction(t, db, "r1", "erin", "h1", baseTime.Add(-2*time.Hour))
	insertInteraction(t, db, "r2", "erin", "unknown", baseTime.Add(-1*time.Hour))

	history, err := db.RecentHistory(ctx, "erin", baseTime, 20)
	if err != nil {
		t.Fatalf("RecentHistory() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("len = %d, want 2", len(history))
	}
	if history[0].Interaction.ArticleID != "unknown" || history[0].Topic != "" {
		t.Errorf("history[0] = %+v", history[0])
	}
	if history[1].Topic != "health" || history[1].Source != "Source health" {
		t.Errorf("history[1] = %+v", history[1])
	}
}

func TestVectorLiteral(t *testing.T) {
	t.Parallel()

	v := []float32{0.5, -1.25, 3}
	lit := formatVector(v)
	if lit != "[0.5, -1.25, 3]" {
		t.Errorf("formatVector() = %q", lit)
	}
	back, err := parseVector(lit)
	if err != nil || fmt.Sprint(back) != fmt.Sprint(v) {
		t.Errorf("parseVector() = %v, %v", back, err)
	}
	if _, err := parseVector("[1, x]"); err == nil {
		t.Error("parseVector accepted garbage")
	}
	if placeholders(3) != "?, ?, ?" {
		t.Errorf("placeholders(3) = %q", placeholders(3))
	}
}

func ids(articles []models.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.ID
	}
	return out
}
