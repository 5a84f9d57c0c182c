// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var fixedNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func TestNewsAPI_Search(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/everything" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if r.Header.Get("X-Api-Key") != "key" {
			t.Errorf("missing api key header")
		}
		if q.Get("q") != "climate" || q.Get("sortBy") != "relevancy" || q.Get("language") != "en" {
			t.Errorf("query = %v", q)
		}
		if q.Get("from") != "2026-05-03" || q.Get("to") != "2026-05-10" {
			t.Errorf("date window = %s..%s", q.Get("from"), q.Get("to"))
		}
		if q.Get("page") != "2" || q.Get("pageSize") != "5" {
			t.Errorf("paging = %s/%s", q.Get("page"), q.Get("pageSize"))
		}
		writeJSON(w, `{"status":"ok","totalResults":42,"articles":[
			{"source":{"name":"Reuters"},"title":"Climate deal","description":"Leaders agree","url":"https://r.example/1",
			 "urlToImage":"https://img.example/1.jpg","publishedAt":"2026-05-09T10:00:00Z","content":"body"},
			{"source":{"name":""},"title":"No source","url":"https://r.example/2"},
			{"title":"","url":"https://r.example/3"}
		]}`)
	})

	n := NewNewsAPI(Options{BaseURL: server.URL, APIKey: "key"})
	n.now = func() time.Time { return fixedNow }

	res, err := n.Search(context.Background(), Query{Text: "climate", Page: 2, PageSize: 5})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if res.TotalResults != 42 {
		t.Errorf("TotalResults = %d, want 42", res.TotalResults)
	}
	if len(res.Articles) != 2 {
		t.Fatalf("len(Articles) = %d, want 2 (untitled record skipped)", len(res.Articles))
	}
	first := res.Articles[0]
	if first.Source != "Reuters" || first.Summary != "Leaders agree" || first.ImageURL != "https://img.example/1.jpg" {
		t.Errorf("first = %+v", first)
	}
	if first.ID != ArticleID("https://r.example/1") {
		t.Errorf("ID = %q", first.ID)
	}
	if res.Articles[1].Source != "NewsAPI" || res.Articles[1].ImageURL != PlaceholderImage {
		t.Errorf("defaults not applied: %+v", res.Articles[1])
	}
}

func TestNewsAPI_HeadlinesCategory(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/top-headlines" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("category"); got != "sports" {
			t.Errorf("category = %q", got)
		}
		writeJSON(w, `{"status":"ok","totalResults":1,"articles":[{"title":"Match","url":"https://s.example/1"}]}`)
	})

	n := NewNewsAPI(Options{BaseURL: server.URL, APIKey: "key"})
	res, err := n.Headlines(context.Background(), Query{Category: "sports", PageSize: 10})
	if err != nil {
		t.Fatalf("Headlines() error = %v", err)
	}
	if len(res.Articles) != 1 || res.Articles[0].Topic != "sports" {
		t.Errorf("articles = %+v", res.Articles)
	}
}

func TestNewsAPI_ErrorStatus(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"status":"error","code":"rateLimited","message":"slow down"}`)
	})
	n := NewNewsAPI(Options{BaseURL: server.URL, APIKey: "key"})
	if _, err := n.Search(context.Background(), Query{Text: "x"}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestGNews_SearchAndHeadlines(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("apikey") != "gkey" || q.Get("lang") != "en" || q.Get("max") != "1" {
			t.Errorf("query = %v", q)
		}
		switch r.URL.Path {
		case "/api/v4/search":
			if q.Get("q") != "mars" {
				t.Errorf("q = %q", q.Get("q"))
			}
		case "/api/v4/top-headlines":
			if q.Get("category") != "science" || q.Get("topic") != "science" {
				t.Errorf("category = %q topic = %q", q.Get("category"), q.Get("topic"))
			}
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeJSON(w, `{"totalArticles":2,"articles":[
			{"title":"Mars","description":"Red planet","content":"c","url":"https://g.example/1","image":"https://g.example/1.jpg","publishedAt":"2026-05-09T08:00:00Z","source":{"name":"Space"}},
			{"title":"Extra","url":"https://g.example/2"}
		]}`)
	})

	g := NewGNews(Options{BaseURL: server.URL, APIKey: "gkey"})
	res, err := g.Search(context.Background(), Query{Text: "mars", PageSize: 1})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(res.Articles) != 1 || res.Articles[0].Source != "Space" || res.Articles[0].Summary != "Red planet" {
		t.Errorf("Search articles = %+v", res.Articles)
	}

	res, err = g.Headlines(context.Background(), Query{Category: "science", PageSize: 1})
	if err != nil {
		t.Fatalf("Headlines() error = %v", err)
	}
	if len(res.Articles) != 1 || res.Articles[0].Topic != "science" {
		t.Errorf("Headlines articles = %+v", res.Articles)
	}
}

func TestNYTimes_Search(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/svc/search/v2/articlesearch.json" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api-key") != "nkey" || q.Get("sort") != "newest" || q.Get("q") != "election" {
			t.Errorf("query = %v", q)
		}
		writeJSON(w, `{"response":{"docs":[
			{"headline":{"main":"Vote count"},"web_url":"https://nyt.example/1","source":"","pub_date":"2026-05-09T10:00:00+0000",
			 "abstract":"Counting continues","section_name":"U.S.","multimedia":[{"url":"images/2026/a.jpg","type":"image"}]}
		]}}`)
	})

	n := NewNYTimes(Options{BaseURL: server.URL, APIKey: "nkey"})
	res, err := n.Search(context.Background(), Query{Text: "election", PageSize: 5})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(res.Articles) != 1 {
		t.Fatalf("len = %d", len(res.Articles))
	}
	a := res.Articles[0]
	if a.Source != "The New York Times" || a.Topic != "general" {
		t.Errorf("article = %+v", a)
	}
	if a.ImageURL != "https://static01.nyt.com/images/2026/a.jpg" {
		t.Errorf("ImageURL = %q", a.ImageURL)
	}
	if !a.PublishedAt.Equal(time.Date(2026, 5, 9, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("PublishedAt = %v", a.PublishedAt)
	}
}

func TestNYTimes_HeadlinesSectionMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		category string
		path     string
	}{
		{"entertainment", "/svc/topstories/v2/arts.json"},
		{"general", "/svc/topstories/v2/home.json"},
		{"", "/svc/topstories/v2/home.json"},
		{"technology", "/svc/topstories/v2/technology.json"},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			t.Parallel()
			server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != tt.path {
					t.Errorf("path = %s, want %s", r.URL.Path, tt.path)
				}
				writeJSON(w, `{"results":[{"title":"Story","url":"https://nyt.example/s","section":"Arts",
					"abstract":"abc","multimedia":[{"url":"https://img/default.jpg","format":"default"},{"url":"https://img/440.jpg","format":"mediumThreeByTwo440"}]}]}`)
			})
			n := NewNYTimes(Options{BaseURL: server.URL, APIKey: "nkey"})
			res, err := n.Headlines(context.Background(), Query{Category: tt.category, PageSize: 3})
			if err != nil {
				t.Fatalf("Headlines() error = %v", err)
			}
			if len(res.Articles) != 1 {
				t.Fatalf("len = %d", len(res.Articles))
			}
			if res.Articles[0].ImageURL != "https://img/440.jpg" {
				t.Errorf("ImageURL = %q", res.Articles[0].ImageURL)
			}
			if res.Articles[0].Topic != "entertainment" {
				t.Errorf("Topic = %q", res.Articles[0].Topic)
			}
		})
	}
}

func TestDuckDuckGo_Search(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/news.js" || r.URL.Query().Get("o") != "json" {
			t.Errorf("request = %s", r.URL)
		}
		if got := r.URL.Query().Get("q"); got != "health news" {
			t.Errorf("q = %q", got)
		}
		writeJSON(w, `{"results":[
			{"title":"Sleep study","url":"https://d.example/1","source":"","date":1700000000,"excerpt":"More sleep","image":""},
			{"title":"Diet","url":"https://d.example/2","source":"Herald","date":"2026-05-01T00:00:00Z","excerpt":"Less sugar"}
		]}`)
	})

	d := NewDuckDuckGo(Options{BaseURL: server.URL})
	res, err := d.Headlines(context.Background(), Query{Category: "health", PageSize: 10})
	if err != nil {
		t.Fatalf("Headlines() error = %v", err)
	}
	if len(res.Articles) != 2 {
		t.Fatalf("len = %d", len(res.Articles))
	}
	if res.Articles[0].Source != "DuckDuckGo" || !res.Articles[0].PublishedAt.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("first = %+v", res.Articles[0])
	}
	if res.Articles[1].Topic != "health" || res.Articles[1].Source != "Herald" {
		t.Errorf("second = %+v", res.Articles[1])
	}
}

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Example Feed</title>
  <link>https://feed.example</link>
  <description>Example</description>
  <item>
    <title>Quantum chips ship</title>
    <link>https://feed.example/quantum</link>
    <description>&lt;p&gt;New &lt;b&gt;qubits&lt;/b&gt;&lt;/p&gt;</description>
    <category>Technology</category>
    <pubDate>Sat, 09 May 2026 10:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Cup final</title>
    <link>https://feed.example/final</link>
    <description>Late winner</description>
    <category>Sports</category>
    <pubDate>Sun, 10 May 2026 09:00:00 GMT</pubDate>
  </item>
</channel>
</rss>`

func TestRSS_SearchAndHeadlines(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(testFeed))
	})

	r := NewRSS([]string{server.URL}, Options{})

	res, err := r.Search(context.Background(), Query{Text: "QUBITS", PageSize: 10})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(res.Articles) != 1 || res.Articles[0].Title != "Quantum chips ship" {
		t.Fatalf("Search articles = %+v", res.Articles)
	}
	if res.Articles[0].Summary != "New qubits" || res.Articles[0].Topic != "technology" {
		t.Errorf("normalized = %+v", res.Articles[0])
	}
	if res.Articles[0].Source != "Example Feed" {
		t.Errorf("Source = %q", res.Articles[0].Source)
	}

	res, err = r.Headlines(context.Background(), Query{PageSize: 10})
	if err != nil {
		t.Fatalf("Headlines() error = %v", err)
	}
	if len(res.Articles) != 2 || res.Articles[0].Title != "Cup final" {
		t.Errorf("Headlines not newest first: %+v", res.Articles)
	}

	res, _ = r.Headlines(context.Background(), Query{Category: "sports", PageSize: 10})
	if len(res.Articles) != 1 || !strings.Contains(res.Articles[0].URL, "final") {
		t.Errorf("category filter = %+v", res.Articles)
	}
}

func TestRSS_AllFeedsFail(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	r := NewRSS([]string{server.URL}, Options{})
	if _, err := r.Search(context.Background(), Query{Text: "x"}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestAdapter_ServerErrorIsUnavailable(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	g := NewGNews(Options{BaseURL: server.URL, APIKey: "k"})
	if _, err := g.Search(context.Background(), Query{Text: "x"}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}
