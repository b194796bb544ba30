// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/util"
)

// ArticleAPIResponse is an article in list responses.
type ArticleAPIResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Summary   *string   `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`
	Author    string    `json:"author"`
	Category  *string   `json:"category"`
}

// ArticleDetailResponse is a single article.
type ArticleDetailResponse struct {
	ArticleAPIResponse
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html"`
	CategoryID  *int64    `json:"category_id"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ArticleListResponse is one page of articles.
type ArticleListResponse struct {
	Articles []ArticleAPIResponse `json:"articles"`
	service.PageInfo
}

func articleFromRow(a store.ListArticlesRow) ArticleAPIResponse {
	return ArticleAPIResponse{
		ID:        a.ID,
		Title:     a.Title,
		Slug:      a.Slug,
		Summary:   util.PtrFromNullString(a.Summary),
		CreatedAt: a.CreatedAt,
		Status:    a.Status,
		Author:    a.AuthorUsername,
		Category:  util.PtrFromNullString(a.CategoryName),
	}
}

// CreateArticle handles POST /api/articles.
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var fields service.ArticleFields
	if err := decodeJSON(w, r, &fields); err != nil {
		h.fail(w, r, err)
		return
	}

	id, err := h.svc.Articles.Create(r.Context(), middleware.GetIdentity(r), fields)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteCreated(w, "Article created successfully", id)
}

// ListArticles handles GET /api/articles?page&per_page&status.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Articles.List(r.Context(), middleware.GetIdentity(r), r.URL.Query().Get("status"), parsePageRequest(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := ArticleListResponse{
		Articles: make([]ArticleAPIResponse, 0, len(list.Articles)),
		PageInfo: list.PageInfo,
	}
	for _, a := range list.Articles {
		resp.Articles = append(resp.Articles, articleFromRow(a))
	}
	WriteJSON(w, http.StatusOK, resp)
}

// GetArticle handles GET /api/articles/{id}.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	a, err := h.svc.Articles.Get(r.Context(), middleware.GetIdentity(r), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, ArticleDetailResponse{
		ArticleAPIResponse: ArticleAPIResponse{
			ID:        a.ID,
			Title:     a.Title,
			Slug:      a.Slug,
			Summary:   util.PtrFromNullString(a.Summary),
			CreatedAt: a.CreatedAt,
			Status:    a.Status,
			Author:    a.AuthorUsername,
			Category:  util.PtrFromNullString(a.CategoryName),
		},
		Content:     a.Content,
		ContentHTML: a.ContentHTML,
		CategoryID:  util.PtrFromNullInt64(a.CategoryID),
		UpdatedAt:   a.UpdatedAt,
	})
}

// UpdateArticle handles PUT /api/articles/{id}. Only fields present in the
// body change.
func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var fields service.ArticleFields
	if err := decodeJSON(w, r, &fields); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.Articles.Update(r.Context(), middleware.GetIdentity(r), id, fields); err != nil {
		h.fail(w, r, err)
		return
	}
	WriteMessage(w, "Article updated successfully")
}

// DeleteArticle handles DELETE /api/articles/{id}.
func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.Articles.Delete(r.Context(), middleware.GetIdentity(r), id); err != nil {
		h.fail(w, r, err)
		return
	}
	WriteMessage(w, "Article deleted successfully")
}
