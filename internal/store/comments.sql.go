// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const createComment = `-- name: CreateComment :execlastid
INSERT INTO comments (content, status, user_id, article_id, created_at)
VALUES (?, ?, ?, ?, ?)
`

type CreateCommentParams struct {
	Content   string    `json:"content"`
	Status    string    `json:"status"`
	UserID    int64     `json:"user_id"`
	ArticleID int64     `json:"article_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (q *Queries) CreateComment(ctx context.Context, arg CreateCommentParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createComment,
		arg.Content,
		arg.Status,
		arg.UserID,
		arg.ArticleID,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const getCommentByID = `-- name: GetCommentByID :one
SELECT id, content, status, user_id, article_id, created_at FROM comments WHERE id = ?
`

func (q *Queries) GetCommentByID(ctx context.Context, id int64) (Comment, error) {
	row := q.db.QueryRowContext(ctx, getCommentByID, id)
	var i Comment
	err := row.Scan(
		&i.ID,
		&i.Content,
		&i.Status,
		&i.UserID,
		&i.ArticleID,
		&i.CreatedAt,
	)
	return i, err
}

// Each nullable argument is bound twice; NULL disables that filter.
const listComments = `-- name: ListComments :many
SELECT c.id, c.content, c.status, c.user_id, c.article_id, c.created_at, u.username AS author_username
FROM comments c
JOIN users u ON u.id = c.user_id
WHERE (? IS NULL OR c.article_id = ?)
  AND (? IS NULL OR c.status = ?)
ORDER BY c.created_at DESC, c.id DESC
`

type ListCommentsParams struct {
	ArticleID sql.NullInt64  `json:"article_id"`
	Status    sql.NullString `json:"status"`
}

type ListCommentsRow struct {
	ID             int64     `json:"id"`
	Content        string    `json:"content"`
	Status         string    `json:"status"`
	UserID         int64     `json:"user_id"`
	ArticleID      int64     `json:"article_id"`
	CreatedAt      time.Time `json:"created_at"`
	AuthorUsername string    `json:"author_username"`
}

func (q *Queries) ListComments(ctx context.Context, arg ListCommentsParams) ([]ListCommentsRow, error) {
	rows, err := q.db.QueryContext(ctx, listComments,
		arg.ArticleID,
		arg.ArticleID,
		arg.Status,
		arg.Status,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListCommentsRow{}
	for rows.Next() {
		var i ListCommentsRow
		if err := rows.Scan(
			&i.ID,
			&i.Content,
			&i.Status,
			&i.UserID,
			&i.ArticleID,
			&i.CreatedAt,
			&i.AuthorUsername,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countCommentsForArticle = `-- name: CountCommentsForArticle :one
SELECT COUNT(*) FROM comments WHERE article_id = ?
`

func (q *Queries) CountCommentsForArticle(ctx context.Context, articleID int64) (int64, error) {
	row := q.db.QueryRowContext(ctx, countCommentsForArticle, articleID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const updateCommentStatus = `-- name: UpdateCommentStatus :exec
UPDATE comments SET status = ? WHERE id = ?
`

type UpdateCommentStatusParams struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

func (q *Queries) UpdateCommentStatus(ctx context.Context, arg UpdateCommentStatusParams) error {
	_, err := q.db.ExecContext(ctx, updateCommentStatus, arg.Status, arg.ID)
	return err
}

const deleteComment = `-- name: DeleteComment :exec
DELETE FROM comments WHERE id = ?
`

func (q *Queries) DeleteComment(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteComment, id)
	return err
}
