// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/headlines/internal/models"
)

// healthPingTimeout bounds the datastore check in /health.
const healthPingTimeout = 2 * time.Second

// Health handles GET /health. It answers 503 when the datastore is down;
// provider quota exhaustion and open circuits only show in the body.
//
// @Summary Service health
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthResponse} "Healthy"
// @Failure 503 {object} models.APIResponse "Datastore unavailable"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	resp := models.HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Database:  h.db.Ping(ctx) == nil,
		Cache:     h.cacheBackend,
		Providers: h.providerStatus(),
	}

	status := http.StatusOK
	if !resp.Database {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
		w.Header().Set("Retry-After", retryAfterSeconds)
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   resp,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

func (h *Handler) providerStatus() []models.ProviderStatus {
	if h.providers == nil {
		return []models.ProviderStatus{}
	}
	circuits := h.providers.CircuitStates()
	quotas := h.providers.Quotas()
	out := make([]models.ProviderStatus, 0, len(quotas))
	for _, q := range quotas {
		out = append(out, models.ProviderStatus{
			Name:        q.Name,
			Calls:       q.Calls,
			Limit:       q.Limit,
			Remaining:   q.Remaining,
			ResetsAt:    q.ResetsAt,
			CircuitOpen: circuits[q.Name],
		})
	}
	return out
}
