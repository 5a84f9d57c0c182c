// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/headlines/internal/database"
	"github.com/tomtom215/headlines/internal/logging"
	"github.com/tomtom215/headlines/internal/models"
	"github.com/tomtom215/headlines/internal/news"
	"github.com/tomtom215/headlines/internal/validation"
)

// Error codes.
const (
	CodeValidation  = validation.ErrorCode
	CodeNotFound    = "NOT_FOUND"
	CodeUnavailable = "SERVICE_UNAVAILABLE"
	CodeRateLimited = "RATE_LIMIT_EXCEEDED"
	CodeInternal    = "INTERNAL_ERROR"
)

// retryAfterSeconds is sent with 503 responses.
const retryAfterSeconds = "30"

// sanitizeLogValue escapes control characters so request input cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// respondJSON writes response with status.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in a success envelope.
func respondSuccess(w http.ResponseWriter, data any, start time.Time, cached bool) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      cached,
		},
	})
}

// respondError writes an error envelope.
func respondError(w http.ResponseWriter, status int, apiErr *models.APIError) {
	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    apiErr,
	})
}

// respondFailure maps err onto a status code and error envelope and logs it.
func respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.Ctx(r.Context())

	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		apiErr := verr.ToAPIError()
		respondError(w, http.StatusBadRequest, &models.APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		})
	case errors.Is(err, news.ErrNotFound), errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, &models.APIError{
			Code:    CodeNotFound,
			Message: "Resource not found",
		})
	case errors.Is(err, database.ErrUnavailable):
		logger.Error().Str("error", sanitizeLogValue(err.Error())).Str("path", r.URL.Path).Msg("Datastore unavailable")
		w.Header().Set("Retry-After", retryAfterSeconds)
		respondError(w, http.StatusServiceUnavailable, &models.APIError{
			Code:    CodeUnavailable,
			Message: "Datastore temporarily unavailable",
		})
	default:
		logger.Error().Str("error", sanitizeLogValue(err.Error())).Str("path", r.URL.Path).Msg("API Error")
		respondError(w, http.StatusInternalServerError, &models.APIError{
			Code:    CodeInternal,
			Message: "Internal server error",
		})
	}
}

// badRequest reports a single request problem as a validation error.
func badRequest(w http.ResponseWriter, message string) {
	respondError(w, http.StatusBadRequest, &models.APIError{
		Code:    CodeValidation,
		Message: message,
	})
}
