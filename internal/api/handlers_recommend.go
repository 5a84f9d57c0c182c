// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/headlines/internal/models"
	"github.com/tomtom215/headlines/internal/recommend"
	"github.com/tomtom215/headlines/internal/validation"
)

const defaultMaxResults = 5

// recommendationRequest is accepted as query parameters (GET) or a JSON
// body (POST).
type recommendationRequest struct {
	ArticleID     string   `json:"article_id" validate:"omitempty,max=256"`
	UserID        string   `json:"user_id" validate:"omitempty,max=256"`
	UserInterests []string `json:"user_interests" validate:"omitempty,max=20,dive,required,max=64"`
	Algorithm     string   `json:"algorithm" validate:"omitempty,max=32"`
	Category      string   `json:"category" validate:"omitempty,category"`
	MaxResults    int      `json:"max_results" validate:"min=1,max=50"`
}

func (req *recommendationRequest) normalize() {
	req.ArticleID = strings.TrimSpace(req.ArticleID)
	req.UserID = strings.TrimSpace(req.UserID)
	req.Algorithm = strings.ToLower(strings.TrimSpace(req.Algorithm))
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))

	interests := req.UserInterests[:0]
	for _, v := range req.UserInterests {
		if v = strings.TrimSpace(v); v != "" {
			interests = append(interests, v)
		}
	}
	req.UserInterests = interests
}

func (req *recommendationRequest) hasInput() bool {
	return req.ArticleID != "" || req.UserID != "" || len(req.UserInterests) > 0
}

// RecommendationsGet handles GET /api/news/recommendations.
//
// @Summary Recommend articles
// @Tags Recommendations
// @Produce json
// @Param article_id query string false "Seed article id"
// @Param user_id query string false "User id"
// @Param user_interests query []string false "Interests, repeated or comma separated" collectionFormat(multi)
// @Param algorithm query string false "Algorithm name" default(hybrid)
// @Param category query string false "Category for trending"
// @Param max_results query int false "Result count (1-50)" default(5)
// @Success 200 {object} models.APIResponse{data=models.RecommendationsResponse} "Recommendations"
// @Failure 400 {object} models.APIResponse "Missing input"
// @Failure 503 {object} models.APIResponse "Datastore unavailable"
// @Router /api/news/recommendations [get]
func (h *Handler) RecommendationsGet(w http.ResponseWriter, r *http.Request) {
	maxResults, err := getIntParam(r, "max_results", defaultMaxResults)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	q := r.URL.Query()
	req := recommendationRequest{
		ArticleID:     q.Get("article_id"),
		UserID:        q.Get("user_id"),
		UserInterests: getListParam(r, "user_interests"),
		Algorithm:     q.Get("algorithm"),
		Category:      q.Get("category"),
		MaxResults:    maxResults,
	}
	h.recommend(w, r, &req)
}

// RecommendationsPost handles POST /api/news/recommendations.
//
// @Summary Recommend articles from a JSON body
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body recommendationRequest true "Recommendation request"
// @Success 200 {object} models.APIResponse{data=models.RecommendationsResponse} "Recommendations"
// @Failure 400 {object} models.APIResponse "Invalid request"
// @Failure 503 {object} models.APIResponse "Datastore unavailable"
// @Router /api/news/recommendations [post]
func (h *Handler) RecommendationsPost(w http.ResponseWriter, r *http.Request) {
	req := recommendationRequest{MaxResults: defaultMaxResults}
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	h.recommend(w, r, &req)
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request, req *recommendationRequest) {
	start := time.Now()
	req.normalize()
	if !req.hasInput() {
		badRequest(w, "Either article_id, user_id, or user_interests must be provided")
		return
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		respondFailure(w, r, verr)
		return
	}

	algorithm := req.Algorithm
	if algorithm == "" {
		algorithm = recommend.AlgorithmHybrid
	}
	resp, err := h.recommender.Recommend(r.Context(), recommend.Request{
		Algorithm: algorithm,
		UserID:    req.UserID,
		ArticleID: req.ArticleID,
		Interests: req.UserInterests,
		Category:  req.Category,
		K:         req.MaxResults,
	})
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	respondSuccess(w, models.RecommendationsResponse{
		Recommendations: resp.Articles,
		Algorithm:       resp.Algorithm,
		Count:           len(resp.Articles),
	}, start, resp.Cached)
}

// Algorithms handles GET /api/news/algorithms.
//
// @Summary List recommendation algorithms
// @Tags Recommendations
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]recommend.AlgorithmInfo} "Algorithm catalogue"
// @Router /api/news/algorithms [get]
func (h *Handler) Algorithms(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, recommend.Algorithms(), time.Now(), false)
}
