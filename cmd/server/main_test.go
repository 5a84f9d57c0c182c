// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/headlines/internal/config"
	"github.com/tomtom215/headlines/internal/embedding"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{"serve": false, "init-db": false, "fetch": false, "version": false}
	for _, c := range root.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "headlines dev") {
		t.Errorf("output = %q", out.String())
	}
}

func TestEmbeddingModels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		cfg        config.EmbeddingConfig
		wantTiers  int
		sharedFast bool
	}{
		{"disabled", config.EmbeddingConfig{Enabled: false, Model: "all-minilm"}, 0, false},
		{"single model", config.EmbeddingConfig{Enabled: true, URL: "http://ollama", Model: "all-minilm", Timeout: time.Second}, 2, true},
		{"separate fast model", config.EmbeddingConfig{Enabled: true, URL: "http://ollama", Model: "bge-small", FastModel: "all-minilm", Timeout: time.Second}, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			models := embeddingModels(&tt.cfg)
			if len(models) != tt.wantTiers {
				t.Fatalf("tiers = %d, want %d", len(models), tt.wantTiers)
			}
			if tt.wantTiers == 0 {
				return
			}
			same := models[embedding.TierFast] == models[embedding.TierDefault]
			if same != tt.sharedFast {
				t.Errorf("fast tier shared = %v, want %v", same, tt.sharedFast)
			}
		})
	}
}
