// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/markup"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
	"github.com/olegiv/oblog/internal/util"
)

// Field limits for articles.
const (
	MaxTitleLength   = 140
	MaxSummaryLength = 500
)

// ArticleService manages articles.
type ArticleService struct {
	store  *store.Store
	events *EventService
}

// NewArticleService creates a new ArticleService.
func NewArticleService(st *store.Store, events *EventService) *ArticleService {
	return &ArticleService{store: st, events: events}
}

// ArticleFields carries article input. On create, absent fields take their
// defaults; on update, only present fields are applied.
type ArticleFields struct {
	Title      model.Optional[string] `json:"title"`
	Content    model.Optional[string] `json:"content"`
	Summary    model.Optional[string] `json:"summary"`
	Status     model.Optional[string] `json:"status"`
	CategoryID model.Optional[int64]  `json:"category_id"`
}

// ArticleList is one page of articles.
type ArticleList struct {
	Articles []store.ListArticlesRow
	PageInfo
}

// ArticleDetail is a single article with its rendered body.
type ArticleDetail struct {
	store.GetArticleDetailRow
	ContentHTML string
}

// articleValues is the full column set written by create and update.
type articleValues struct {
	title      string
	content    string
	summary    sql.NullString
	status     model.ArticleStatus
	categoryID sql.NullInt64
}

// apply merges present fields of f into v and validates the result.
func (f ArticleFields) apply(v *articleValues) error {
	if f.Title.Set {
		v.title = strings.TrimSpace(f.Title.Value)
	}
	if f.Content.Set {
		v.content = f.Content.Value
	}
	if f.Summary.Set {
		v.summary = util.NullStringFromValue(f.Summary.Value)
	}
	if f.Status.Set {
		v.status = model.ArticleStatus(f.Status.Value)
	}
	if f.CategoryID.Set {
		if f.CategoryID.Null {
			v.categoryID = sql.NullInt64{}
		} else {
			v.categoryID = sql.NullInt64{Int64: f.CategoryID.Value, Valid: true}
		}
	}

	switch {
	case v.title == "":
		return model.NewValidationError("title", "Missing required fields")
	case strings.TrimSpace(v.content) == "":
		return model.NewValidationError("content", "Missing required fields")
	case tooLong(v.title, MaxTitleLength):
		return model.NewValidationError("title", fmt.Sprintf("Title must be at most %d characters", MaxTitleLength))
	case tooLong(v.summary.String, MaxSummaryLength):
		return model.NewValidationError("summary", fmt.Sprintf("Summary must be at most %d characters", MaxSummaryLength))
	case !v.status.Valid():
		return model.NewValidationError("status", "Invalid status")
	}
	return nil
}

// checkCategory rejects a category id that does not reference a category.
func checkCategory(ctx context.Context, q *store.Queries, id sql.NullInt64) error {
	if !id.Valid {
		return nil
	}
	if _, err := q.GetCategoryByID(ctx, id.Int64); err != nil {
		if store.IsNotFound(err) {
			return model.NewValidationError("category_id", "Category not found")
		}
		return fmt.Errorf("loading category: %w", err)
	}
	return nil
}

// Create adds an article and returns its id. Admin only.
func (s *ArticleService) Create(ctx context.Context, id auth.Identity, f ArticleFields) (int64, error) {
	if err := auth.RequireAdmin(id); err != nil {
		return 0, err
	}

	v := articleValues{status: model.ArticleStatusPublished}
	if f.Status.Set && f.Status.Null {
		f.Status = model.Optional[string]{}
	}
	if err := f.apply(&v); err != nil {
		return 0, err
	}

	var articleID int64
	err := s.store.InTx(ctx, func(q *store.Queries) error {
		if err := checkCategory(ctx, q, v.categoryID); err != nil {
			return err
		}
		ts := now()
		newID, err := q.CreateArticle(ctx, store.CreateArticleParams{
			Title:      v.title,
			Slug:       util.SlugOrFallback(v.title, "article"),
			Summary:    v.summary,
			Content:    v.content,
			Status:     string(v.status),
			UserID:     id.UserID,
			CategoryID: v.categoryID,
			CreatedAt:  ts,
			UpdatedAt:  ts,
		})
		if err != nil {
			return mapArticleWriteError(err)
		}
		articleID = newID
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.events.record(ctx, model.EventLevelInfo, model.EventCategoryArticle, "Article created", id,
		map[string]any{"article_id": articleID, "title": v.title, "status": v.status})
	return articleID, nil
}

func mapArticleWriteError(err error) error {
	if store.IsForeignKeyViolation(err) {
		return model.NewValidationError("category_id", "Category not found")
	}
	return fmt.Errorf("writing article: %w", err)
}

// List returns one page of articles, newest first. An explicit status is
// honoured for every caller; without one, admins see every status and
// everyone else sees published articles only.
func (s *ArticleService) List(ctx context.Context, id auth.Identity, status string, page PageRequest) (ArticleList, error) {
	page = page.Normalize()

	var filter sql.NullString
	if st, ok := auth.ArticleListFilter(id, status); ok {
		filter = sql.NullString{String: string(st), Valid: true}
	}

	total, err := s.store.CountArticles(ctx, filter)
	if err != nil {
		return ArticleList{}, fmt.Errorf("counting articles: %w", err)
	}
	rows, err := s.store.ListArticles(ctx, store.ListArticlesParams{
		Status: filter,
		Limit:  page.limit(),
		Offset: page.offset(),
	})
	if err != nil {
		return ArticleList{}, fmt.Errorf("listing articles: %w", err)
	}

	return ArticleList{Articles: rows, PageInfo: newPageInfo(total, page)}, nil
}

// Get returns one article. Non-published articles are visible to admins only.
func (s *ArticleService) Get(ctx context.Context, id auth.Identity, articleID int64) (ArticleDetail, error) {
	row, err := s.store.GetArticleDetail(ctx, articleID)
	if err != nil {
		return ArticleDetail{}, notFound(err, "Article")
	}
	if !auth.CanViewArticle(id, model.ArticleStatus(row.Status)) {
		return ArticleDetail{}, model.NewForbiddenError("Article is not published")
	}

	html, err := markup.RenderMarkdown(row.Content)
	if err != nil {
		return ArticleDetail{}, err
	}
	return ArticleDetail{GetArticleDetailRow: row, ContentHTML: html}, nil
}

// Update applies the present fields of f to an article. Admin only.
func (s *ArticleService) Update(ctx context.Context, id auth.Identity, articleID int64, f ArticleFields) error {
	if err := auth.RequireAdmin(id); err != nil {
		return err
	}

	err := s.store.InTx(ctx, func(q *store.Queries) error {
		current, err := q.GetArticleByID(ctx, articleID)
		if err != nil {
			return notFound(err, "Article")
		}

		v := articleValues{
			title:      current.Title,
			content:    current.Content,
			summary:    current.Summary,
			status:     model.ArticleStatus(current.Status),
			categoryID: current.CategoryID,
		}
		if err := f.apply(&v); err != nil {
			return err
		}
		if f.CategoryID.HasValue() {
			if err := checkCategory(ctx, q, v.categoryID); err != nil {
				return err
			}
		}

		slug := current.Slug
		if v.title != current.Title || slug == "" {
			slug = util.SlugOrFallback(v.title, "article")
		}

		if err := q.UpdateArticle(ctx, store.UpdateArticleParams{
			Title:      v.title,
			Slug:       slug,
			Summary:    v.summary,
			Content:    v.content,
			Status:     string(v.status),
			CategoryID: v.categoryID,
			UpdatedAt:  now(),
			ID:         articleID,
		}); err != nil {
			return mapArticleWriteError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.events.record(ctx, model.EventLevelInfo, model.EventCategoryArticle, "Article updated", id,
		map[string]any{"article_id": articleID})
	return nil
}

// Delete removes an article and, through the foreign key, its comments. Admin only.
func (s *ArticleService) Delete(ctx context.Context, id auth.Identity, articleID int64) error {
	if err := auth.RequireAdmin(id); err != nil {
		return err
	}

	var comments int64
	err := s.store.InTx(ctx, func(q *store.Queries) error {
		if _, err := q.GetArticleByID(ctx, articleID); err != nil {
			return notFound(err, "Article")
		}
		var err error
		if comments, err = q.CountCommentsForArticle(ctx, articleID); err != nil {
			return fmt.Errorf("counting article comments: %w", err)
		}
		if err := q.DeleteArticle(ctx, articleID); err != nil {
			return fmt.Errorf("deleting article: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.events.record(ctx, model.EventLevelInfo, model.EventCategoryArticle, "Article deleted", id,
		map[string]any{"article_id": articleID, "comments_removed": comments})
	return nil
}
