// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"github.com/olegiv/oblog/internal/model"
)

// Identity is the caller of an operation. The zero value is the anonymous caller.
type Identity struct {
	UserID   int64
	Username string
	IsAdmin  bool
}

// Anonymous is the identity of a caller without a session.
var Anonymous = Identity{}

// IsAuthenticated reports whether the identity belongs to a logged-in user.
func (id Identity) IsAuthenticated() bool {
	return id.UserID != 0
}

// RequireAuthenticated returns model.ErrUnauthorized for anonymous callers.
func RequireAuthenticated(id Identity) error {
	if !id.IsAuthenticated() {
		return model.ErrUnauthorized
	}
	return nil
}

// RequireAdmin returns model.ErrUnauthorized for anonymous callers and
// model.ErrForbidden for authenticated callers without the admin role.
func RequireAdmin(id Identity) error {
	if err := RequireAuthenticated(id); err != nil {
		return err
	}
	if !id.IsAdmin {
		return model.NewForbiddenError("Admin privileges required")
	}
	return nil
}

// CanViewArticle reports whether id may read a single article in status.
// Only published articles are public; everything else is admin-only.
func CanViewArticle(id Identity, status model.ArticleStatus) bool {
	return status.IsPublic() || id.IsAdmin
}

// ArticleListFilter resolves the status filter applied to an article listing.
// An explicitly requested status is honoured for every caller. Without one,
// admins see all statuses (ok=false means "no filter") and everyone else sees
// only published articles.
func ArticleListFilter(id Identity, requested string) (status model.ArticleStatus, ok bool) {
	if requested != "" {
		return model.ArticleStatus(requested), true
	}
	if id.IsAdmin {
		return "", false
	}
	return model.ArticleStatusPublished, true
}

// CommentListFilter resolves the status filter applied to a comment listing,
// with the same explicit-filter rule as ArticleListFilter.
func CommentListFilter(id Identity, requested string) (status model.CommentStatus, ok bool) {
	if requested != "" {
		return model.CommentStatus(requested), true
	}
	if id.IsAdmin {
		return "", false
	}
	return model.CommentStatusApproved, true
}

// InitialCommentStatus returns the status a new comment by id starts in.
// Admin comments skip moderation.
func InitialCommentStatus(id Identity) model.CommentStatus {
	if id.IsAdmin {
		return model.CommentStatusApproved
	}
	return model.CommentStatusPending
}
