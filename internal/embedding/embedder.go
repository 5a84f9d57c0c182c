// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package embedding

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/headlines/internal/upstream"
)

// Tier selects which embedding model computes a vector. The tiers are opaque
// to the store; callers decide which model backs each.
type Tier string

// Known tiers.
const (
	TierDefault Tier = "default"
	TierFast    Tier = "fast"
)

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Models maps each tier to the embedder serving it.
type Models map[Tier]Embedder

// OllamaEmbedder calls an Ollama-compatible POST /api/embeddings endpoint.
type OllamaEmbedder struct {
	baseURL string
	model   string
	client  *upstream.Client
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// NewOllamaEmbedder creates an embedder for model served at baseURL.
func NewOllamaEmbedder(baseURL, model string, timeout time.Duration) *OllamaEmbedder {
	return &OllamaEmbedder{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client: upstream.NewClient(upstream.ClientConfig{
			Name:    "embedding-" + model,
			Timeout: timeout,
		}),
	}
}

// Model returns the model name.
func (o *OllamaEmbedder) Model() string { return o.model }

// Embed returns the embedding of text.
func (o *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp ollamaEmbedResponse
	err := o.client.PostJSON(ctx, o.baseURL+"/api/embeddings", nil,
		ollamaEmbedRequest{Model: o.model, Prompt: text}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEmbeddingUnavailable, o.model, err)
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("%w: %s returned an empty embedding", ErrEmbeddingUnavailable, o.model)
	}
	return resp.Embedding, nil
}
