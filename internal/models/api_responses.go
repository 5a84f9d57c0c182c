// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package models

import (
	"time"
)

// APIResponse is the standard wrapper used by all HTTP endpoints.
//
// Status is "success" with Data populated, or "error" with Error populated.
//
//	{
//	  "status": "success",
//	  "data": {"articles": [...], "totalResults": 42, "page": 1, "pageSize": 10},
//	  "metadata": {"timestamp": "2026-01-02T12:00:00Z", "query_time_ms": 45}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a machine-readable error code with a human message.
//
// Common codes: VALIDATION_ERROR, NOT_FOUND, DATABASE_ERROR,
// SERVICE_UNAVAILABLE, RATE_LIMIT_EXCEEDED.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RecommendationsResponse is the payload of the recommendations endpoint.
type RecommendationsResponse struct {
	Recommendations []ScoredArticle `json:"recommendations"`
	Algorithm       string          `json:"algorithm"`
	Count           int             `json:"count"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// InteractionResponse is returned after an interaction is recorded.
type InteractionResponse struct {
	Message       string `json:"message"`
	InteractionID string `json:"interactionId"`
}

// HealthResponse reports component status.
type HealthResponse struct {
	Status    string           `json:"status"`
	Version   string           `json:"version"`
	Database  bool             `json:"database"`
	Cache     string           `json:"cache"`
	Providers []ProviderStatus `json:"providers"`
}

// ProviderStatus is a provider's quota position.
type ProviderStatus struct {
	Name      string    `json:"name"`
	Calls     int       `json:"calls"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetsAt  time.Time `json:"resetsAt,omitempty"`

	// CircuitOpen is false for providers without a circuit breaker.
	CircuitOpen bool `json:"circuitOpen"`
}
