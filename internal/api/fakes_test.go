// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/headlines/internal/cache"
	"github.com/tomtom215/headlines/internal/interactions"
	"github.com/tomtom215/headlines/internal/models"
	"github.com/tomtom215/headlines/internal/quota"
	"github.com/tomtom215/headlines/internal/recommend"
)

type pageCall struct {
	op, arg        string
	page, pageSize int
}

type mockNews struct {
	mu       sync.Mutex
	calls    []pageCall
	page     models.NewsPage
	cached   bool
	err      error
	articles map[string]models.Article
}

func (m *mockNews) record(op, arg string, page, size int) (models.NewsPage, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, pageCall{op, arg, page, size})
	return m.page, m.cached, m.err
}

func (m *mockNews) lastCall() pageCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return pageCall{}
	}
	return m.calls[len(m.calls)-1]
}

func (m *mockNews) Search(_ context.Context, q string, page, size int) (models.NewsPage, bool, error) {
	return m.record("search", q, page, size)
}

func (m *mockNews) Trending(_ context.Context, cat string, page, size int) (models.NewsPage, bool, error) {
	return m.record("trending", cat, page, size)
}

func (m *mockNews) Topic(_ context.Context, topic string, page, size int) (models.NewsPage, bool, error) {
	return m.record("topic", topic, page, size)
}

func (m *mockNews) Article(_ context.Context, id string) (models.Article, bool, error) {
	if m.err != nil {
		return models.Article{}, false, m.err
	}
	a, ok := m.articles[id]
	if !ok {
		return models.Article{}, false, errArticleMissing
	}
	return a, true, nil
}

type mockRecommender struct {
	mu   sync.Mutex
	last recommend.Request
	resp *recommend.Response
	err  error
}

func (m *mockRecommender) Recommend(_ context.Context, req recommend.Request) (*recommend.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	if m.resp != nil {
		return m.resp, nil
	}
	return &recommend.Response{Algorithm: req.Algorithm, Articles: []models.ScoredArticle{}}, nil
}

type mockWriter struct {
	mu      sync.Mutex
	written []*models.UserInteraction
	err     error
}

func (m *mockWriter) InsertInteraction(_ context.Context, in *models.UserInteraction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.written = append(m.written, in)
	return nil
}

type mockDatastore struct {
	initErr error
	pingErr error
	inits   int
}

func (m *mockDatastore) InitSchema(context.Context) error {
	m.inits++
	return m.initErr
}

func (m *mockDatastore) Ping(context.Context) error { return m.pingErr }

type mockProviders struct{}

func (mockProviders) Quotas() []quota.Status {
	return []quota.Status{
		{Name: "gnews", Calls: 3, Limit: 100, Remaining: 97},
		{Name: "newsapi", Calls: 100, Limit: 100, Remaining: 0},
	}
}

func (mockProviders) CircuitStates() map[string]bool {
	return map[string]bool{"newsapi": true, "gnews": false}
}

type testServer struct {
	news    *mockNews
	rec     *mockRecommender
	writer  *mockWriter
	db      *mockDatastore
	handler http.Handler
}

func newTestServer(t *testing.T, cfg RouterConfig) *testServer {
	t.Helper()
	ts := &testServer{
		news:   &mockNews{page: models.NewsPage{Articles: []models.Article{}, Page: 1, PageSize: 10}},
		rec:    &mockRecommender{},
		writer: &mockWriter{},
		db:     &mockDatastore{},
	}
	store := interactions.NewStore(ts.writer, cache.NewLoader(cache.NewMemoryStore(100)), zerolog.Nop())
	h := NewHandler(Dependencies{
		News:         ts.news,
		Recommender:  ts.rec,
		Interactions: store,
		DB:           ts.db,
		Providers:    mockProviders{},
		CacheBackend: cache.BackendMemory,
		Version:      "test",
	})
	if cfg.RateLimitRequests == 0 {
		cfg.RateLimitDisabled = true
	}
	ts.handler = NewRouter(h, cfg)
	return ts
}

func (ts *testServer) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

// envelope mirrors models.APIResponse with Data left raw.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

var testTime = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
