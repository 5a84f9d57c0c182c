// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/headlines/internal/cache"
	"github.com/tomtom215/headlines/internal/database"
	"github.com/tomtom215/headlines/internal/embedding"
	"github.com/tomtom215/headlines/internal/models"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// mockRepository is an in-memory Repository.
type mockRepository struct {
	mu           sync.Mutex
	articles     []models.Article
	vectors      map[string][]float32
	interactions []models.UserInteraction

	activityCalls atomic.Int32
	blockActivity bool
	err           error

	// afterUserRead runs after UserArticleIDs has read its snapshot.
	afterUserRead func()
}

func (m *mockRepository) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func newMockRepository() *mockRepository {
	return &mockRepository{vectors: make(map[string][]float32)}
}

func (m *mockRepository) addArticle(id, topic, source string, published time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articles = append(m.articles, models.Article{
		ID:          id,
		Title:       "Title " + id,
		URL:         "https://news.test/" + id,
		Source:      source,
		Topic:       topic,
		PublishedAt: published,
	})
}

func (m *mockRepository) interact(user, article string, ts time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interactions = append(m.interactions, models.UserInteraction{
		ID:        fmt.Sprintf("i%d", len(m.interactions)),
		UserID:    user,
		ArticleID: article,
		Type:      models.InteractionRead,
		Timestamp: ts,
	})
}

func (m *mockRepository) article(id string) (models.Article, bool) {
	for _, a := range m.articles {
		if a.ID == id {
			return a, true
		}
	}
	return models.Article{}, false
}

func (m *mockRepository) GetArticles(_ context.Context, ids []string) (map[string]models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make(map[string]models.Article)
	for _, id := range ids {
		if a, ok := m.article(id); ok {
			out[id] = a
		}
	}
	return out, nil
}

func (m *mockRepository) SimilarArticles(_ context.Context, vector []float32, excludeID string, k int) ([]models.ScoredArticle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ScoredArticle
	for id, v := range m.vectors {
		if id == excludeID {
			continue
		}
		a, ok := m.article(id)
		if !ok {
			continue
		}
		out = append(out, models.ScoredArticle{Article: a, Score: cosine(vector, v)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func (m *mockRepository) sortedArticles() []models.Article {
	out := append([]models.Article(nil), m.articles...)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublishedAt.Equal(out[j].PublishedAt) {
			return out[i].PublishedAt.After(out[j].PublishedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *mockRepository) RecentArticles(_ context.Context, limit int) ([]models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := m.sortedArticles()
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockRepository) LatestPerTopic(_ context.Context, limit int) ([]models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	seen := make(map[string]bool)
	var out []models.Article
	for _, a := range m.sortedArticles() {
		if a.Topic == "" || seen[a.Topic] {
			continue
		}
		seen[a.Topic] = true
		out = append(out, a)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockRepository) userSet(user string, asOf time.Time) []string {
	set := make(map[string]struct{})
	for _, i := range m.interactions {
		if i.UserID == user && !i.Timestamp.After(asOf) {
			set[i.ArticleID] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (m *mockRepository) UserArticleIDs(_ context.Context, userID string, asOf time.Time) ([]string, error) {
	m.mu.Lock()
	if m.err != nil {
		m.mu.Unlock()
		return nil, m.err
	}
	ids := m.userSet(userID, asOf)
	m.mu.Unlock()

	if m.afterUserRead != nil {
		m.afterUserRead()
	}
	return ids, nil
}

func (m *mockRepository) Neighbors(_ context.Context, userID string, asOf time.Time, limit int) ([]database.Neighbor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mine := toSet(m.userSet(userID, asOf))
	users := make(map[string]struct{})
	for _, i := range m.interactions {
		if i.UserID != userID {
			users[i.UserID] = struct{}{}
		}
	}
	var out []database.Neighbor
	for u := range users {
		shared := 0
		for _, id := range m.userSet(u, asOf) {
			if _, ok := mine[id]; ok {
				shared++
			}
		}
		if shared > 0 {
			out = append(out, database.Neighbor{UserID: u, Shared: shared})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Shared != out[j].Shared {
			return out[i].Shared > out[j].Shared
		}
		return out[i].UserID < out[j].UserID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockRepository) UserArticleSets(_ context.Context, userIDs []string, asOf time.Time) (map[string][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]string, len(userIDs))
	for _, u := range userIDs {
		out[u] = m.userSet(u, asOf)
	}
	return out, nil
}

func (m *mockRepository) HasInteractions(_ context.Context, userID string, asOf time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.userSet(userID, asOf)) > 0, nil
}

func (m *mockRepository) ArticleActivitySince(ctx context.Context, since, asOf time.Time, topic string) ([]database.ArticleActivity, error) {
	m.activityCalls.Add(1)
	if m.blockActivity {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []database.ArticleActivity
	for _, a := range m.articles {
		if a.PublishedAt.Before(since) || a.PublishedAt.After(asOf) {
			continue
		}
		if topic != "" && a.Topic != topic {
			continue
		}
		count := 0
		for _, i := range m.interactions {
			if i.ArticleID == a.ID && !i.Timestamp.Before(since) && !i.Timestamp.After(asOf) {
				count++
			}
		}
		out = append(out, database.ArticleActivity{Article: a, Interactions: count})
	}
	return out, nil
}

func (m *mockRepository) RecentHistory(_ context.Context, userID string, asOf time.Time, limit int) ([]database.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []database.HistoryEntry
	for _, i := range m.interactions {
		if i.UserID != userID || i.Timestamp.After(asOf) {
			continue
		}
		a, _ := m.article(i.ArticleID)
		out = append(out, database.HistoryEntry{Interaction: i, Title: a.Title, Topic: a.Topic, Source: a.Source})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Interaction.Timestamp.After(out[j].Interaction.Timestamp)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// mockResolver serves the repository's vectors.
type mockResolver struct {
	repo *mockRepository
}

func (r mockResolver) Resolve(_ context.Context, articleID string, _ embedding.Tier) ([]float32, error) {
	r.repo.mu.Lock()
	defer r.repo.mu.Unlock()
	v, ok := r.repo.vectors[articleID]
	if !ok {
		return nil, embedding.ErrEmbeddingUnavailable
	}
	return v, nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func axis(i int, tilt float32) []float32 {
	v := make([]float32, models.EmbeddingDimension)
	v[i] = 1
	v[(i+1)%len(v)] = tilt
	return v
}

func newTestEngine(t *testing.T, repo *mockRepository, cfg *Config) *Engine {
	t.Helper()
	e, err := NewEngine(repo, mockResolver{repo: repo}, cache.NewLoader(cache.NewMemoryStore(1000)), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.now = func() time.Time { return testNow }
	return e
}

func articleIDs(articles []models.ScoredArticle) []string {
	out := make([]string, len(articles))
	for i := range articles {
		out[i] = articles[i].ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
