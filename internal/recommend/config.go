// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/headlines/internal/config"
)

// Config contains the engine configuration.
type Config struct {
	// Weights are the hybrid blend weights. They are used as given.
	Weights Weights `json:"weights"`

	// AlgorithmTimeout bounds each hybrid sub-algorithm.
	AlgorithmTimeout time.Duration `json:"algorithm_timeout"`

	// MaxNeighbors caps the users considered by collaborative filtering.
	MaxNeighbors int `json:"max_neighbors"`

	// TrendingWindowHours is the default trending window.
	TrendingWindowHours int `json:"trending_window_hours"`

	// DefaultK is used when a request does not ask for a size.
	DefaultK int `json:"default_k"`

	// MaxK caps the requested size.
	MaxK int `json:"max_k"`
}

// Weights are the hybrid blend weights per sub-algorithm.
type Weights struct {
	Content       float64 `json:"content"`
	Collaborative float64 `json:"collaborative"`
	Trending      float64 `json:"trending"`
	Diverse       float64 `json:"diverse"`
}

// ToMap keys the weights by algorithm name.
func (w Weights) ToMap() map[string]float64 {
	return map[string]float64{
		AlgorithmContent:       w.Content,
		AlgorithmCollaborative: w.Collaborative,
		AlgorithmTrending:      w.Trending,
		AlgorithmDiverse:       w.Diverse,
	}
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			Content:       0.4,
			Collaborative: 0.3,
			Trending:      0.2,
			Diverse:       0.1,
		},
		AlgorithmTimeout:    5 * time.Second,
		MaxNeighbors:        10,
		TrendingWindowHours: 24,
		DefaultK:            5,
		MaxK:                50,
	}
}

// ConfigFromSettings builds a Config from the application settings. Zero
// values keep the defaults.
func ConfigFromSettings(s *config.RecommendConfig) *Config {
	cfg := DefaultConfig()
	if s == nil {
		return cfg
	}
	if s.AlgorithmTimeout > 0 {
		cfg.AlgorithmTimeout = s.AlgorithmTimeout
	}
	if s.MaxNeighbors > 0 {
		cfg.MaxNeighbors = s.MaxNeighbors
	}
	if s.TrendingWindowHours > 0 {
		cfg.TrendingWindowHours = s.TrendingWindowHours
	}
	if w := (Weights{s.ContentWeight, s.CollaborativeWeight, s.TrendingWeight, s.DiverseWeight}); w != (Weights{}) {
		cfg.Weights = w
	}
	return cfg
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	for name, w := range c.Weights.ToMap() {
		if w < 0 {
			return fmt.Errorf("weights.%s must be non-negative, got %f", name, w)
		}
	}
	if c.AlgorithmTimeout <= 0 {
		return fmt.Errorf("algorithm_timeout must be positive, got %v", c.AlgorithmTimeout)
	}
	if c.MaxNeighbors < 1 {
		return fmt.Errorf("max_neighbors must be positive, got %d", c.MaxNeighbors)
	}
	if c.TrendingWindowHours < 1 {
		return fmt.Errorf("trending_window_hours must be positive, got %d", c.TrendingWindowHours)
	}
	if c.DefaultK < 1 {
		return fmt.Errorf("default_k must be positive, got %d", c.DefaultK)
	}
	if c.MaxK < c.DefaultK {
		return fmt.Errorf("max_k must be >= default_k, got %d < %d", c.MaxK, c.DefaultK)
	}
	return nil
}

// clampK applies the default and maximum result sizes.
func (c *Config) clampK(k int) int {
	switch {
	case k <= 0:
		return c.DefaultK
	case k > c.MaxK:
		return c.MaxK
	}
	return k
}
