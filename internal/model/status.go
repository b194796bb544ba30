// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "slices"

// ArticleStatus is the publication state of an article.
type ArticleStatus string

// Article statuses.
const (
	ArticleStatusDraft     ArticleStatus = "draft"
	ArticleStatusPublished ArticleStatus = "published"
	ArticleStatusPrivate   ArticleStatus = "private"
)

// ArticleStatuses lists every valid article status.
var ArticleStatuses = []ArticleStatus{
	ArticleStatusDraft,
	ArticleStatusPublished,
	ArticleStatusPrivate,
}

// Valid reports whether s is a known article status.
func (s ArticleStatus) Valid() bool {
	return slices.Contains(ArticleStatuses, s)
}

// IsPublic reports whether articles in this status are visible to everyone.
func (s ArticleStatus) IsPublic() bool {
	return s == ArticleStatusPublished
}

// CommentStatus is the moderation state of a comment.
type CommentStatus string

// Comment statuses.
const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusRejected CommentStatus = "rejected"
)

// CommentStatuses lists every valid comment status.
var CommentStatuses = []CommentStatus{
	CommentStatusPending,
	CommentStatusApproved,
	CommentStatusRejected,
}

// Valid reports whether s is a known comment status.
func (s CommentStatus) Valid() bool {
	return slices.Contains(CommentStatuses, s)
}
