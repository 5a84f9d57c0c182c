// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package cache

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// fakeUpstash implements the subset of the REST protocol the store uses.
type fakeUpstash struct {
	mu       sync.Mutex
	data     map[string]string
	ttls     map[string]string
	token    string
	commands [][]string
}

func newFakeUpstash(token string) *fakeUpstash {
	return &fakeUpstash{data: map[string]string{}, ttls: map[string]string{}, token: token}
}

func (f *fakeUpstash) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer "+f.token {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
		return
	}
	body, _ := io.ReadAll(r.Body)
	var cmd []string
	if err := json.Unmarshal(body, &cmd); err != nil || len(cmd) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad command"}`))
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, cmd)

	var result any
	switch strings.ToUpper(cmd[0]) {
	case "GET":
		if v, ok := f.data[cmd[1]]; ok {
			result = v
		}
	case "SET":
		f.data[cmd[1]] = cmd[2]
		if len(cmd) == 5 {
			f.ttls[cmd[1]] = cmd[4]
		}
		result = "OK"
	case "DEL":
		n := 0
		for _, k := range cmd[1:] {
			if _, ok := f.data[k]; ok {
				delete(f.data, k)
				n++
			}
		}
		result = n
	case "SCAN":
		// single page: the whole keyspace
		pattern := cmd[3]
		keys := []string{}
		for k := range f.data {
			if ok, _ := path.Match(pattern, k); ok {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		result = []any{"0", keys}
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"unknown command"}`))
		return
	}

	out, _ := json.Marshal(map[string]any{"result": result})
	_, _ = w.Write(out)
}

func newTestRemote(t *testing.T) (*RemoteStore, *fakeUpstash) {
	t.Helper()
	fake := newFakeUpstash("tok")
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return NewRemoteStore(RemoteConfig{URL: server.URL + "/", Token: "tok", Timeout: 2 * time.Second}, zerolog.Nop()), fake
}

func TestRemoteStore_RoundTripsAwkwardBytes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, fake := newTestRemote(t)

	tests := []struct {
		name  string
		key   string
		value []byte
	}{
		{"unicode json", "search:a/b?c=d#frag:1:10", []byte(`{"title":"Café / naïve ? # 東京"}`)},
		{"invalid utf8", "raw:1", []byte{0x00, 0xff, 0xfe, 'a', '/', '?', 0x80}},
		{"empty", "raw:2", []byte{}},
	}
	for _, tt := range tests {
		if !s.Set(ctx, tt.key, tt.value, 15*time.Minute) {
			t.Fatalf("%s: Set() = false", tt.name)
		}
		got, ok := s.Get(ctx, tt.key)
		if !ok || !bytes.Equal(got, tt.value) {
			t.Errorf("%s: Get() = %x, %v; want %x", tt.name, got, ok, tt.value)
		}
	}

	fake.mu.Lock()
	ttl := fake.ttls["raw:1"]
	fake.mu.Unlock()
	if ttl != strconv.Itoa(15*60) {
		t.Errorf("EX = %s, want 900", ttl)
	}
}

func TestRemoteStore_UndecodableValueIsMiss(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, fake := newTestRemote(t)

	fake.mu.Lock()
	fake.data["foreign"] = "not base64!"
	fake.mu.Unlock()

	if _, ok := s.Get(ctx, "foreign"); ok {
		t.Error("Get() of a value not written by the store should miss")
	}
}

func TestRemoteStore_MissAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, _ := newTestRemote(t)

	if _, ok := s.Get(ctx, "absent"); ok {
		t.Error("Get() of absent key should miss")
	}

	s.Set(ctx, "a", []byte("1"), time.Minute)
	s.Set(ctx, "b", []byte("2"), time.Minute)
	if n := s.Delete(ctx, "a", "b", "c"); n != 2 {
		t.Errorf("Delete() = %d, want 2", n)
	}
}

func TestRemoteStore_DeletePrefix(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, fake := newTestRemote(t)

	s.Set(ctx, "hybrid_recommendations:u1::tech:10", []byte("x"), time.Minute)
	s.Set(ctx, "hybrid_recommendations:u1:a9:sports:5", []byte("x"), time.Minute)
	s.Set(ctx, "hybrid_recommendations:u2::tech:10", []byte("x"), time.Minute)

	if n := s.DeletePrefix(ctx, "hybrid_recommendations:u1:"); n != 2 {
		t.Errorf("DeletePrefix() = %d, want 2", n)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if _, ok := fake.data["hybrid_recommendations:u2::tech:10"]; !ok {
		t.Error("other user's entry was removed")
	}
}

func TestRemoteStore_ErrorsBecomeMisses(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fake := newFakeUpstash("right")
	server := httptest.NewServer(fake)
	defer server.Close()

	s := NewRemoteStore(RemoteConfig{URL: server.URL, Token: "wrong", Timeout: time.Second}, zerolog.Nop())
	if s.Set(ctx, "k", []byte("v"), time.Minute) {
		t.Error("Set() should fail with bad token")
	}
	if _, ok := s.Get(ctx, "k"); ok {
		t.Error("Get() should miss on error")
	}
	if n := s.Delete(ctx, "k"); n != 0 {
		t.Errorf("Delete() = %d, want 0", n)
	}

	server.Close()
	if _, ok := s.Get(ctx, "k"); ok {
		t.Error("Get() should miss when the service is down")
	}
}

func TestEscapeGlob(t *testing.T) {
	t.Parallel()
	if got := escapeGlob("search:a*b?[c]"); got != `search:a\*b\?\[c\]` {
		t.Errorf("escapeGlob() = %q", got)
	}
}

func TestDecodeScan_NumericCursor(t *testing.T) {
	t.Parallel()
	cursor, keys, err := decodeScan(json.RawMessage(`[17,["a","b"]]`))
	if err != nil {
		t.Fatalf("decodeScan() error = %v", err)
	}
	if cursor != "17" || len(keys) != 2 {
		t.Errorf("decodeScan() = %q, %v", cursor, keys)
	}
}
