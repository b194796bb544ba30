// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/util"
)

// CategoryAPIResponse represents a category in API responses.
type CategoryAPIResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  *string `json:"description"`
	ArticleCount int64   `json:"article_count"`
}

// CreateCategory handles POST /api/categories.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var fields service.CategoryFields
	if err := decodeJSON(w, r, &fields); err != nil {
		h.fail(w, r, err)
		return
	}

	id, err := h.svc.Categories.Create(r.Context(), middleware.GetIdentity(r), fields)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteCreated(w, "Category created successfully", id)
}

// ListCategories handles GET /api/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := make([]CategoryAPIResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, CategoryAPIResponse{
			ID:           c.ID,
			Name:         c.Name,
			Slug:         c.Slug,
			Description:  util.PtrFromNullString(c.Description),
			ArticleCount: c.ArticleCount,
		})
	}
	WriteJSON(w, http.StatusOK, resp)
}

// UpdateCategory handles PUT /api/categories/{id}.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var fields service.CategoryFields
	if err := decodeJSON(w, r, &fields); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.Categories.Update(r.Context(), middleware.GetIdentity(r), id, fields); err != nil {
		h.fail(w, r, err)
		return
	}
	WriteMessage(w, "Category updated successfully")
}

// DeleteCategory handles DELETE /api/categories/{id}. Categories that still
// hold articles are refused with a conflict.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.Categories.Delete(r.Context(), middleware.GetIdentity(r), id); err != nil {
		h.fail(w, r, err)
		return
	}
	WriteMessage(w, "Category deleted successfully")
}
