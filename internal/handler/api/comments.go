// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/util"
)

// CommentAPIResponse represents a comment in API responses.
type CommentAPIResponse struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`
	Author    string    `json:"author"`
	ArticleID int64     `json:"article_id"`
}

// CreateCommentRequest is the body of POST /api/comments.
type CreateCommentRequest struct {
	Content   string `json:"content"`
	ArticleID int64  `json:"article_id"`
}

// CreateCommentResponse reports the new comment and its moderation status.
type CreateCommentResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
	Status  string `json:"status"`
}

// UpdateCommentStatusRequest is the body of PUT /api/comments/{id}/status.
type UpdateCommentStatusRequest struct {
	Status string `json:"status"`
}

// CreateComment handles POST /api/comments.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req CreateCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	c, err := h.svc.Comments.Create(r.Context(), middleware.GetIdentity(r), req.ArticleID, req.Content)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, CreateCommentResponse{
		Message: "Comment submitted successfully",
		ID:      c.ID,
		Status:  c.Status,
	})
}

// ListComments handles GET /api/comments?article_id&status.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	articleID, ok := util.ParseNullInt64Positive(q.Get("article_id"))
	if !ok {
		h.fail(w, r, model.NewValidationError("article_id", "Invalid article_id"))
		return
	}

	comments, err := h.svc.Comments.List(r.Context(), middleware.GetIdentity(r), articleID, q.Get("status"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp := make([]CommentAPIResponse, 0, len(comments))
	for _, c := range comments {
		resp = append(resp, CommentAPIResponse{
			ID:        c.ID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
			Status:    c.Status,
			Author:    c.AuthorUsername,
			ArticleID: c.ArticleID,
		})
	}
	WriteJSON(w, http.StatusOK, resp)
}

// UpdateCommentStatus handles PUT /api/comments/{id}/status.
func (h *Handler) UpdateCommentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var req UpdateCommentStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.Comments.UpdateStatus(r.Context(), middleware.GetIdentity(r), id, req.Status); err != nil {
		h.fail(w, r, err)
		return
	}
	WriteMessage(w, "Comment status updated successfully")
}

// DeleteComment handles DELETE /api/comments/{id}.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.svc.Comments.Delete(r.Context(), middleware.GetIdentity(r), id); err != nil {
		h.fail(w, r, err)
		return
	}
	WriteMessage(w, "Comment deleted successfully")
}
