// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/headlines/internal/logging"
	"github.com/tomtom215/headlines/internal/models"
	"github.com/tomtom215/headlines/internal/quota"
)

// fakeProvider returns canned articles and records what it was asked for.
type fakeProvider struct {
	mu       sync.Mutex
	name     string
	articles []models.Article
	total    int
	err      error
	open     bool
	calls    int
	asked    []int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) CircuitOpen() bool { return f.open }

func (f *fakeProvider) respond(q Query) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.asked = append(f.asked, q.PageSize)
	if f.err != nil {
		return Result{}, f.err
	}
	out := limit(f.articles, q.PageSize)
	total := f.total
	if total == 0 {
		total = len(out)
	}
	return Result{Articles: out, TotalResults: total}, nil
}

func (f *fakeProvider) Search(_ context.Context, q Query) (Result, error) { return f.respond(q) }

func (f *fakeProvider) Headlines(_ context.Context, q Query) (Result, error) { return f.respond(q) }

func articlesFor(prefix string, ids ...int) []models.Article {
	out := make([]models.Article, 0, len(ids))
	for _, id := range ids {
		url := fmt.Sprintf("https://%s.example/%d", prefix, id)
		out = append(out, models.Article{ID: ArticleID(url), Title: fmt.Sprintf("%s %d", prefix, id), URL: url})
	}
	return out
}

func newTestAggregator(providers ...*fakeProvider) *Aggregator {
	agg := NewAggregator(quota.NewTracker(time.Hour), time.Second, logging.NewTestLogger(io.Discard))
	for _, p := range providers {
		agg.Register(p, 100)
	}
	return agg
}

func TestAggregator_MergesAndDedupes(t *testing.T) {
	t.Parallel()

	shared := articlesFor("shared", 1)
	first := &fakeProvider{name: NameNewsAPI, articles: append(articlesFor("a", 1), shared...), total: 50}
	second := &fakeProvider{name: NameGNews, articles: append(append([]models.Article{}, shared...), articlesFor("b", 1, 2, 3)...)}
	third := &fakeProvider{name: NameNYTimes, articles: articlesFor("c", 1, 2)}
	fourth := &fakeProvider{name: NameDuckDuckGo, articles: articlesFor("d", 1)}

	agg := newTestAggregator(first, second, third, fourth)
	page, err := agg.Search(context.Background(), "query", 1, 4)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	wantURLs := []string{"https://a.example/1", "https://shared.example/1", "https://b.example/1", "https://c.example/1"}
	if len(page.Articles) != len(wantURLs) {
		t.Fatalf("len(Articles) = %d, want %d", len(page.Articles), len(wantURLs))
	}
	for i, want := range wantURLs {
		if page.Articles[i].URL != want {
			t.Errorf("Articles[%d].URL = %s, want %s", i, page.Articles[i].URL, want)
		}
	}
	// Later providers are asked only for what is still missing.
	if len(second.asked) != 1 || second.asked[0] != 2 {
		t.Errorf("second provider asked for %v, want [2]", second.asked)
	}
	if len(third.asked) != 1 || third.asked[0] != 1 {
		t.Errorf("third provider asked for %v, want [1]", third.asked)
	}
	if fourth.calls != 0 {
		t.Errorf("fourth provider called %d times, want 0", fourth.calls)
	}
	// NewsAPI total plus everything the later providers returned.
	if page.TotalResults != 53 {
		t.Errorf("TotalResults = %d, want 53", page.TotalResults)
	}
}

func TestAggregator_PageInvariants(t *testing.T) {
	t.Parallel()

	dupes := append(articlesFor("x", 1, 2, 3), articlesFor("x", 1, 2, 3)...)
	p1 := &fakeProvider{name: NameNewsAPI, articles: dupes}
	p2 := &fakeProvider{name: NameGNews, articles: dupes}

	agg := newTestAggregator(p1, p2)
	for _, size := range []int{1, 2, 5, 10} {
		page, err := agg.Trending(context.Background(), "", 1, size)
		if err != nil {
			t.Fatalf("Trending() error = %v", err)
		}
		if len(page.Articles) > size {
			t.Errorf("size %d: got %d articles", size, len(page.Articles))
		}
		seen := map[string]bool{}
		for _, a := range page.Articles {
			if seen[a.URL] {
				t.Errorf("size %d: duplicate URL %s", size, a.URL)
			}
			seen[a.URL] = true
		}
	}
}

func TestAggregator_SkipsFailingAndOpenProviders(t *testing.T) {
	t.Parallel()

	failing := &fakeProvider{name: NameNewsAPI, err: fmt.Errorf("%w: boom", ErrUnavailable)}
	open := &fakeProvider{name: NameGNews, open: true, articles: articlesFor("g", 1)}
	working := &fakeProvider{name: NameDuckDuckGo, articles: articlesFor("d", 1, 2)}

	agg := newTestAggregator(failing, open, working)
	page, err := agg.Search(context.Background(), "q", 1, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if failing.calls != 1 {
		t.Errorf("failing provider called %d times, want 1 (no retry)", failing.calls)
	}
	if open.calls != 0 {
		t.Errorf("open-circuit provider was called")
	}
	if len(page.Articles) != 2 || page.TotalResults != 2 {
		t.Errorf("page = %d articles, total %d", len(page.Articles), page.TotalResults)
	}
}

func TestAggregator_QuotaExhaustion(t *testing.T) {
	t.Parallel()

	limited := &fakeProvider{name: NameNewsAPI, articles: articlesFor("n", 1)}
	agg := NewAggregator(quota.NewTracker(time.Hour), time.Second, logging.NewTestLogger(io.Discard))
	agg.Register(limited, 2)

	for i := 0; i < 5; i++ {
		if _, err := agg.Search(context.Background(), "q", 1, 5); err != nil {
			t.Fatalf("Search() error = %v", err)
		}
	}
	if limited.calls != 2 {
		t.Errorf("provider called %d times, want 2", limited.calls)
	}

	statuses := agg.Quotas()
	if len(statuses) != 1 || statuses[0].Remaining != 0 {
		t.Errorf("Quotas() = %+v", statuses)
	}
}

func TestAggregator_DemoFallback(t *testing.T) {
	t.Parallel()

	down := &fakeProvider{name: NameNewsAPI, err: ErrUnavailable}
	agg := newTestAggregator(down)

	page, err := agg.Search(context.Background(), "", 1, 4)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if page.TotalResults != 10 || len(page.Articles) != 4 {
		t.Errorf("unfiltered demo: total %d, len %d", page.TotalResults, len(page.Articles))
	}

	page, _ = agg.Search(context.Background(), "QUANTUM", 1, 10)
	if page.TotalResults != 1 || page.Articles[0].ID != "1008" {
		t.Errorf("query filter: %+v", page)
	}

	page, _ = agg.Trending(context.Background(), "science", 2, 2)
	if page.TotalResults != 3 || len(page.Articles) != 1 || page.Articles[0].ID != "1006" {
		t.Errorf("category filter page 2: %+v", page)
	}
	if !IsDemoArticle(&page.Articles[0]) {
		t.Error("demo article not recognized")
	}
}

func TestAggregator_NoProvidersUsesDemo(t *testing.T) {
	t.Parallel()

	agg := newTestAggregator()
	page, err := agg.Trending(context.Background(), "sports", 1, 10)
	if err != nil {
		t.Fatalf("Trending() error = %v", err)
	}
	if page.TotalResults != 1 || page.Articles[0].Title != "Major Sports League Announces Expansion Teams" {
		t.Errorf("page = %+v", page)
	}
}

func TestAggregator_CanceledContext(t *testing.T) {
	t.Parallel()

	agg := newTestAggregator(&fakeProvider{name: NameNewsAPI, articles: articlesFor("n", 1)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := agg.Search(ctx, "q", 1, 5); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestDemoPage_OutOfRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		page     int
		pageSize int
	}{
		{"past last page", 5, 10},
		{"huge page", math.MaxInt / 5, 10},
		{"max page", math.MaxInt, 10},
		{"huge page size", 2, math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			page := DemoPage(time.Now(), "", "", tt.page, tt.pageSize)
			if len(page.Articles) != 0 || page.TotalResults != 10 {
				t.Errorf("page = %+v", page)
			}
		})
	}
}

func TestPageBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		page, size, n int
		start, end    int
	}{
		{1, 10, 25, 0, 10},
		{3, 10, 25, 20, 25},
		{4, 10, 25, 25, 25},
		{1, 10, 0, 0, 0},
		{1, 0, 5, 0, 0},
		{1, math.MaxInt, 5, 0, 5},
	}
	for _, tt := range tests {
		start, end := pageBounds(tt.page, tt.size, tt.n)
		if start != tt.start || end != tt.end {
			t.Errorf("pageBounds(%d, %d, %d) = %d, %d; want %d, %d",
				tt.page, tt.size, tt.n, start, end, tt.start, tt.end)
		}
	}
}
