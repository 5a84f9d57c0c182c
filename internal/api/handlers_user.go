// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/headlines/internal/interactions"
	"github.com/tomtom215/headlines/internal/logging"
	"github.com/tomtom215/headlines/internal/models"
)

// RecordInteraction handles POST /api/user/interaction.
//
// @Summary Record a user interaction
// @Tags Users
// @Accept json
// @Produce json
// @Param interaction body interactions.Input true "Interaction"
// @Success 200 {object} models.APIResponse{data=models.InteractionResponse} "Recorded"
// @Failure 400 {object} models.APIResponse "Invalid interaction"
// @Failure 503 {object} models.APIResponse "Datastore unavailable"
// @Router /api/user/interaction [post]
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var in interactions.Input
	if err := decodeJSON(w, r, &in); err != nil {
		badRequest(w, err.Error())
		return
	}

	id, err := h.interactions.Append(r.Context(), in)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondSuccess(w, models.InteractionResponse{
		Message:       "User interaction recorded",
		InteractionID: id,
	}, start, false)
}

// InitDatabase handles POST /api/db/init. Schema creation is idempotent.
//
// @Summary Create the database schema
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.MessageResponse} "Schema ready"
// @Failure 503 {object} models.APIResponse "Datastore unavailable"
// @Router /api/db/init [post]
func (h *Handler) InitDatabase(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := h.db.InitSchema(r.Context()); err != nil {
		respondFailure(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().Msg("Database schema initialized via API")
	respondSuccess(w, models.MessageResponse{Message: "Database initialized successfully"}, start, false)
}
