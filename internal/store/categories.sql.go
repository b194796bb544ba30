// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const createCategory = `-- name: CreateCategory :execlastid
INSERT INTO categories (name, slug, description, created_at)
VALUES (?, ?, ?, ?)
`

type CreateCategoryParams struct {
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description sql.NullString `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, createCategory,
		arg.Name,
		arg.Slug,
		arg.Description,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const getCategoryByID = `-- name: GetCategoryByID :one
SELECT id, name, slug, description, created_at FROM categories WHERE id = ?
`

func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (Category, error) {
	row := q.db.QueryRowContext(ctx, getCategoryByID, id)
	var i Category
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.Description,
		&i.CreatedAt,
	)
	return i, err
}

const categoryNameExists = `-- name: CategoryNameExists :one
SELECT EXISTS(SELECT 1 FROM categories WHERE name = ?)
`

func (q *Queries) CategoryNameExists(ctx context.Context, name string) (int64, error) {
	row := q.db.QueryRowContext(ctx, categoryNameExists, name)
	var column_1 int64
	err := row.Scan(&column_1)
	return column_1, err
}

const categoryNameExistsExcluding = `-- name: CategoryNameExistsExcluding :one
SELECT EXISTS(SELECT 1 FROM categories WHERE name = ? AND id != ?)
`

type CategoryNameExistsExcludingParams struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
}

func (q *Queries) CategoryNameExistsExcluding(ctx context.Context, arg CategoryNameExistsExcludingParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, categoryNameExistsExcluding, arg.Name, arg.ID)
	var column_1 int64
	err := row.Scan(&column_1)
	return column_1, err
}

const listCategoriesWithArticleCount = `-- name: ListCategoriesWithArticleCount :many
SELECT c.id, c.name, c.slug, c.description, COUNT(a.id) AS article_count
FROM categories c
LEFT JOIN articles a ON a.category_id = c.id
GROUP BY c.id
ORDER BY c.name
`

type ListCategoriesWithArticleCountRow struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	Slug         string         `json:"slug"`
	Description  sql.NullString `json:"description"`
	ArticleCount int64          `json:"article_count"`
}

func (q *Queries) ListCategoriesWithArticleCount(ctx context.Context) ([]ListCategoriesWithArticleCountRow, error) {
	rows, err := q.db.QueryContext(ctx, listCategoriesWithArticleCount)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListCategoriesWithArticleCountRow{}
	for rows.Next() {
		var i ListCategoriesWithArticleCountRow
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Slug,
			&i.Description,
			&i.ArticleCount,
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

const countArticlesInCategory = `-- name: CountArticlesInCategory :one
SELECT COUNT(*) FROM articles WHERE category_id = ?
`

func (q *Queries) CountArticlesInCategory(ctx context.Context, categoryID sql.NullInt64) (int64, error) {
	row := q.db.QueryRowContext(ctx, countArticlesInCategory, categoryID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const updateCategory = `-- name: UpdateCategory :exec
UPDATE categories SET name = ?, slug = ?, description = ?
WHERE id = ?
`

type UpdateCategoryParams struct {
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description sql.NullString `json:"description"`
	ID          int64          `json:"id"`
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) error {
	_, err := q.db.ExecContext(ctx, updateCategory,
		arg.Name,
		arg.Slug,
		arg.Description,
		arg.ID,
	)
	return err
}

const deleteCategory = `-- name: DeleteCategory :exec
DELETE FROM categories WHERE id = ?
`

func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteCategory, id)
	return err
}
