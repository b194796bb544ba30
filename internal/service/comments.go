// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
)

// MaxCommentLength is the longest accepted comment, in characters.
const MaxCommentLength = 500

// CommentService runs the comment moderation workflow.
type CommentService struct {
	store  *store.Store
	events *EventService
}

// NewCommentService creates a new CommentService.
func NewCommentService(st *store.Store, events *EventService) *CommentService {
	return &CommentService{store: st, events: events}
}

// Create adds a comment to an article. The content is stored as sent;
// clients escape it when rendering. Comments by admins are approved
// immediately; everyone else's wait for moderation.
func (s *CommentService) Create(ctx context.Context, id auth.Identity, articleID int64, content string) (store.Comment, error) {
	if err := auth.RequireAuthenticated(id); err != nil {
		return store.Comment{}, err
	}

	switch {
	case strings.TrimSpace(content) == "":
		return store.Comment{}, model.NewValidationError("content", "Missing required fields")
	case articleID <= 0:
		return store.Comment{}, model.NewValidationError("article_id", "Missing required fields")
	case tooLong(content, MaxCommentLength):
		return store.Comment{}, model.NewValidationError("content", fmt.Sprintf("Comment must be at most %d characters", MaxCommentLength))
	}

	var comment store.Comment
	err := s.store.InTx(ctx, func(q *store.Queries) error {
		if _, err := q.GetArticleByID(ctx, articleID); err != nil {
			return notFound(err, "Article")
		}

		commentID, err := q.CreateComment(ctx, store.CreateCommentParams{
			Content:   content,
			Status:    string(auth.InitialCommentStatus(id)),
			UserID:    id.UserID,
			ArticleID: articleID,
			CreatedAt: now(),
		})
		if err != nil {
			if store.IsForeignKeyViolation(err) {
				return model.NewNotFoundError("Article")
			}
			return fmt.Errorf("creating comment: %w", err)
		}

		comment, err = q.GetCommentByID(ctx, commentID)
		if err != nil {
			return fmt.Errorf("loading new comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return store.Comment{}, err
	}

	s.events.record(ctx, model.EventLevelInfo, model.EventCategoryComment, "Comment submitted", id,
		map[string]any{"comment_id": comment.ID, "article_id": articleID, "status": comment.Status})
	return comment, nil
}

// List returns comments newest first, optionally for one article. An
// explicit status is honoured for every caller; without one, admins see
// every status and everyone else sees approved comments only.
func (s *CommentService) List(ctx context.Context, id auth.Identity, articleID sql.NullInt64, status string) ([]store.ListCommentsRow, error) {
	var filter sql.NullString
	if st, ok := auth.CommentListFilter(id, status); ok {
		filter = sql.NullString{String: string(st), Valid: true}
	}

	rows, err := s.store.ListComments(ctx, store.ListCommentsParams{
		ArticleID: articleID,
		Status:    filter,
	})
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	return rows, nil
}

// UpdateStatus moves a comment to status. Any status may follow any other. Admin only.
func (s *CommentService) UpdateStatus(ctx context.Context, id auth.Identity, commentID int64, status string) error {
	if err := auth.RequireAdmin(id); err != nil {
		return err
	}

	var previous string
	err := s.store.InTx(ctx, func(q *store.Queries) error {
		current, err := q.GetCommentByID(ctx, commentID)
		if err != nil {
			return notFound(err, "Comment")
		}
		if !model.CommentStatus(status).Valid() {
			return model.NewValidationError("status", "Invalid status")
		}
		previous = current.Status

		if err := q.UpdateCommentStatus(ctx, store.UpdateCommentStatusParams{
			Status: status,
			ID:     commentID,
		}); err != nil {
			return fmt.Errorf("updating comment status: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.events.record(ctx, model.EventLevelInfo, model.EventCategoryComment, "Comment status changed", id,
		map[string]any{"comment_id": commentID, "from": previous, "to": status})
	return nil
}

// Delete removes a comment. Admin only.
func (s *CommentService) Delete(ctx context.Context, id auth.Identity, commentID int64) error {
	if err := auth.RequireAdmin(id); err != nil {
		return err
	}

	err := s.store.InTx(ctx, func(q *store.Queries) error {
		if _, err := q.GetCommentByID(ctx, commentID); err != nil {
			return notFound(err, "Comment")
		}
		if err := q.DeleteComment(ctx, commentID); err != nil {
			return fmt.Errorf("deleting comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.events.record(ctx, model.EventLevelInfo, model.EventCategoryComment, "Comment deleted", id,
		map[string]any{"comment_id": commentID})
	return nil
}
