// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const createArticle = `-- name: CreateArticle :execlastid
INSERT INTO articles (title, slug, summary, content, status, user_id, category_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateArticleParams struct {
	Title      string         `json:"title"`
	Slug       string         `json:"slug"`
	Summary    sql.NullString `json:"summary"`
	Content    string         `json:"content"`
	Status     string         `json:"status"`
	UserID     int64          `json:"user_id"`
	CategoryID sql.NullInt64  `json:"category_id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (q *Queries) CreateArticle(ctx context.Context, arg CreateArticleParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createArticle,
		arg.Title,
		arg.Slug,
		arg.Summary,
		arg.Content,
		arg.Status,
		arg.UserID,
		arg.CategoryID,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const getArticleByID = `-- name: GetArticleByID :one
SELECT id, title, slug, summary, content, status, user_id, category_id, created_at, updated_at
FROM articles
WHERE id = ?
`

func (q *Queries) GetArticleByID(ctx context.Context, id int64) (Article, error) {
	row := q.db.QueryRowContext(ctx, getArticleByID, id)
	var i Article
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Summary,
		&i.Content,
		&i.Status,
		&i.UserID,
		&i.CategoryID,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getArticleDetail = `-- name: GetArticleDetail :one
SELECT a.id, a.title, a.slug, a.summary, a.content, a.status, a.user_id, a.category_id,
       a.created_at, a.updated_at, u.username AS author_username, c.name AS category_name
FROM articles a
JOIN users u ON u.id = a.user_id
LEFT JOIN categories c ON c.id = a.category_id
WHERE a.id = ?
`

type GetArticleDetailRow struct {
	ID             int64          `json:"id"`
	Title          string         `json:"title"`
	Slug           string         `json:"slug"`
	Summary        sql.NullString `json:"summary"`
	Content        string         `json:"content"`
	Status         string         `json:"status"`
	UserID         int64          `json:"user_id"`
	CategoryID     sql.NullInt64  `json:"category_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	AuthorUsername string         `json:"author_username"`
	CategoryName   sql.NullString `json:"category_name"`
}

func (q *Queries) GetArticleDetail(ctx context.Context, id int64) (GetArticleDetailRow, error) {
	row := q.db.QueryRowContext(ctx, getArticleDetail, id)
	var i GetArticleDetailRow
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Summary,
		&i.Content,
		&i.Status,
		&i.UserID,
		&i.CategoryID,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.AuthorUsername,
		&i.CategoryName,
	)
	return i, err
}

// The status argument is bound twice; a NULL status disables the filter.
const listArticles = `-- name: ListArticles :many
SELECT a.id, a.title, a.slug, a.summary, a.status, a.user_id, a.category_id, a.created_at,
       u.username AS author_username, c.name AS category_name
FROM articles a
JOIN users u ON u.id = a.user_id
LEFT JOIN categories c ON c.id = a.category_id
WHERE (? IS NULL OR a.status = ?)
ORDER BY a.created_at DESC, a.id DESC
LIMIT ? OFFSET ?
`

type ListArticlesParams struct {
	Status sql.NullString `json:"status"`
	Limit  int64          `json:"limit"`
	Offset int64          `json:"offset"`
}

type ListArticlesRow struct {
	ID             int64          `json:"id"`
	Title          string         `json:"title"`
	Slug           string         `json:"slug"`
	Summary        sql.NullString `json:"summary"`
	Status         string         `json:"status"`
	UserID         int64          `json:"user_id"`
	CategoryID     sql.NullInt64  `json:"category_id"`
	CreatedAt      time.Time      `json:"created_at"`
	AuthorUsername string         `json:"author_username"`
	CategoryName   sql.NullString `json:"category_name"`
}

func (q *Queries) ListArticles(ctx context.Context, arg ListArticlesParams) ([]ListArticlesRow, error) {
	rows, err := q.db.QueryContext(ctx, listArticles,
		arg.Status,
		arg.Status,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListArticlesRow{}
	for rows.Next() {
		var i ListArticlesRow
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Slug,
			&i.Summary,
			&i.Status,
			&i.UserID,
			&i.CategoryID,
			&i.CreatedAt,
			&i.AuthorUsername,
			&i.CategoryName,
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

const countArticles = `-- name: CountArticles :one
SELECT COUNT(*) FROM articles WHERE (? IS NULL OR status = ?)
`

func (q *Queries) CountArticles(ctx context.Context, status sql.NullString) (int64, error) {
	row := q.db.QueryRowContext(ctx, countArticles, status, status)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const updateArticle = `-- name: UpdateArticle :exec
UPDATE articles
SET title = ?, slug = ?, summary = ?, content = ?, status = ?, category_id = ?, updated_at = ?
WHERE id = ?
`

type UpdateArticleParams struct {
	Title      string         `json:"title"`
	Slug       string         `json:"slug"`
	Summary    sql.NullString `json:"summary"`
	Content    string         `json:"content"`
	Status     string         `json:"status"`
	CategoryID sql.NullInt64  `json:"category_id"`
	UpdatedAt  time.Time      `json:"updated_at"`
	ID         int64          `json:"id"`
}

func (q *Queries) UpdateArticle(ctx context.Context, arg UpdateArticleParams) error {
	_, err := q.db.ExecContext(ctx, updateArticle,
		arg.Title,
		arg.Slug,
		arg.Summary,
		arg.Content,
		arg.Status,
		arg.CategoryID,
		arg.UpdatedAt,
		arg.ID,
	)
	return err
}

const deleteArticle = `-- name: DeleteArticle :exec
DELETE FROM articles WHERE id = ?
`

func (q *Queries) DeleteArticle(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteArticle, id)
	return err
}
