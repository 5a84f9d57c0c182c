// Headlines - News Aggregation and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headlines

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/headlines/internal/validation"
)

// defaultPageSize matches the page size clients get without asking.
const defaultPageSize = 10

// pageRequest is the validated paging input shared by the news routes.
type pageRequest struct {
	Page     int `json:"page" validate:"min=1,max=1000"`
	PageSize int `json:"page_size" validate:"min=1,max=100"`
}

type searchRequest struct {
	Query string `json:"query" validate:"required,max=500"`
	pageRequest
}

type trendingRequest struct {
	Category string `json:"category" validate:"omitempty,category"`
	pageRequest
}

type topicRequest struct {
	Topic string `json:"topic" validate:"required,max=64"`
	pageRequest
}

func parsePage(r *http.Request) (pageRequest, error) {
	page, err := getIntParam(r, "page", 1)
	if err != nil {
		return pageRequest{}, err
	}
	size, err := getIntParam(r, "page_size", defaultPageSize)
	if err != nil {
		return pageRequest{}, err
	}
	return pageRequest{Page: page, PageSize: size}, nil
}

// Search handles GET /api/news/search.
//
// @Summary Search articles
// @Tags News
// @Produce json
// @Param query query string true "Search text"
// @Param page query int false "Page number (1-1000)" default(1)
// @Param page_size query int false "Page size (1-100)" default(10)
// @Success 200 {object} models.APIResponse{data=models.NewsPage} "Search results"
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 429 {object} models.APIResponse "Rate limit exceeded"
// @Router /api/news/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	paging, err := parsePage(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	req := searchRequest{Query: strings.TrimSpace(r.URL.Query().Get("query")), pageRequest: paging}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondFailure(w, r, verr)
		return
	}

	page, cached, err := h.news.Search(r.Context(), req.Query, req.Page, req.PageSize)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondSuccess(w, page, start, cached)
}

// Trending handles GET /api/news/trending.
//
// @Summary Trending headlines
// @Tags News
// @Produce json
// @Param category query string false "Category filter"
// @Param page query int false "Page number (1-1000)" default(1)
// @Param page_size query int false "Page size (1-100)" default(10)
// @Success 200 {object} models.APIResponse{data=models.NewsPage} "Headlines"
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Router /api/news/trending [get]
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	paging, err := parsePage(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	req := trendingRequest{
		Category:    strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category"))),
		pageRequest: paging,
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondFailure(w, r, verr)
		return
	}

	page, cached, err := h.news.Trending(r.Context(), req.Category, req.Page, req.PageSize)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondSuccess(w, page, start, cached)
}

// Topic handles GET /api/news/topics/{topic}.
//
// @Summary Articles for one topic
// @Tags News
// @Produce json
// @Param topic path string true "Topic name"
// @Param page query int false "Page number (1-1000)" default(1)
// @Param page_size query int false "Page size (1-100)" default(10)
// @Success 200 {object} models.APIResponse{data=models.NewsPage} "Topic page"
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Router /api/news/topics/{topic} [get]
func (h *Handler) Topic(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	paging, err := parsePage(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	req := topicRequest{Topic: strings.ToLower(chi.URLParam(r, "topic")), pageRequest: paging}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondFailure(w, r, verr)
		return
	}

	page, cached, err := h.news.Topic(r.Context(), req.Topic, req.Page, req.PageSize)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondSuccess(w, page, start, cached)
}

// Article handles GET /api/news/articles/{id}.
//
// @Summary Get one article
// @Tags News
// @Produce json
// @Param id path string true "Article id"
// @Success 200 {object} models.APIResponse{data=models.Article} "Article"
// @Failure 404 {object} models.APIResponse "Unknown article"
// @Router /api/news/articles/{id} [get]
func (h *Handler) Article(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")
	if id == "" || len(id) > 256 {
		badRequest(w, "article id must be 1-256 characters")
		return
	}

	article, cached, err := h.news.Article(r.Context(), id)
	if err != nil {
		respondFailure(w, r, err)
		return
	}
	respondSuccess(w, article, start, cached)
}
