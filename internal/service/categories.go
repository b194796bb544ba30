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
	"github.com/olegiv/oblog/internal/util"
)

// Field limits for categories.
const (
	MaxCategoryNameLength        = 64
	MaxCategoryDescriptionLength = 256
)

// CategoryService manages categories.
type CategoryService struct {
	store  *store.Store
	events *EventService
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(st *store.Store, events *EventService) *CategoryService {
	return &CategoryService{store: st, events: events}
}

// CategoryFields carries category input.
type CategoryFields struct {
	Name        model.Optional[string] `json:"name"`
	Description model.Optional[string] `json:"description"`
}

func validateCategoryName(name string) error {
	if name == "" {
		return model.NewValidationError("name", "Missing required fields")
	}
	if tooLong(name, MaxCategoryNameLength) {
		return model.NewValidationError("name", fmt.Sprintf("Name must be at most %d characters", MaxCategoryNameLength))
	}
	return nil
}

func validateCategoryDescription(d sql.NullString) error {
	if tooLong(d.String, MaxCategoryDescriptionLength) {
		return model.NewValidationError("description", fmt.Sprintf("Description must be at most %d characters", MaxCategoryDescriptionLength))
	}
	return nil
}

func mapCategoryWriteError(err error) error {
	if store.IsUniqueViolation(err) {
		return model.NewDuplicateFieldError("name", "Category already exists")
	}
	return fmt.Errorf("writing category: %w", err)
}

// Create adds a category and returns its id. Admin only.
func (s *CategoryService) Create(ctx context.Context, id auth.Identity, f CategoryFields) (int64, error) {
	if err := auth.RequireAdmin(id); err != nil {
		return 0, err
	}

	name := strings.TrimSpace(f.Name.Value)
	if err := validateCategoryName(name); err != nil {
		return 0, err
	}
	description := util.NullStringFromValue(f.Description.Value)
	if err := validateCategoryDescription(description); err != nil {
		return 0, err
	}

	var categoryID int64
	err := s.store.InTx(ctx, func(q *store.Queries) error {
		n, err := q.CategoryNameExists(ctx, name)
		if err != nil {
			return fmt.Errorf("checking category name: %w", err)
		}
		if n > 0 {
			return model.NewDuplicateFieldError("name", "Category already exists")
		}

		categoryID, err = q.CreateCategory(ctx, store.CreateCategoryParams{
			Name:        name,
			Slug:        util.SlugOrFallback(name, "category"),
			Description: description,
			CreatedAt:   now(),
		})
		if err != nil {
			return mapCategoryWriteError(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.events.record(ctx, model.EventLevelInfo, model.EventCategoryCategory, "Category created", id,
		map[string]any{"category_id": categoryID, "name": name})
	return categoryID, nil
}

// List returns every category ordered by name with its article count. Public.
func (s *CategoryService) List(ctx context.Context) ([]store.ListCategoriesWithArticleCountRow, error) {
	rows, err := s.store.ListCategoriesWithArticleCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return rows, nil
}

// Update renames a category and/or changes its description. Admin only.
func (s *CategoryService) Update(ctx context.Context, id auth.Identity, categoryID int64, f CategoryFields) error {
	if err := auth.RequireAdmin(id); err != nil {
		return err
	}

	err := s.store.InTx(ctx, func(q *store.Queries) error {
		current, err := q.GetCategoryByID(ctx, categoryID)
		if err != nil {
			return notFound(err, "Category")
		}

		name, slug := current.Name, current.Slug
		if f.Name.Set {
			name = strings.TrimSpace(f.Name.Value)
			if err := validateCategoryName(name); err != nil {
				return err
			}
		}
		if name != current.Name {
			n, err := q.CategoryNameExistsExcluding(ctx, store.CategoryNameExistsExcludingParams{
				Name: name,
				ID:   categoryID,
			})
			if err != nil {
				return fmt.Errorf("checking category name: %w", err)
			}
			if n > 0 {
				return model.NewDuplicateFieldError("name", "Category name already exists")
			}
			slug = util.SlugOrFallback(name, "category")
		}

		description := current.Description
		if f.Description.Set {
			description = util.NullStringFromValue(f.Description.Value)
			if err := validateCategoryDescription(description); err != nil {
				return err
			}
		}

		if err := q.UpdateCategory(ctx, store.UpdateCategoryParams{
			Name:        name,
			Slug:        slug,
			Description: description,
			ID:          categoryID,
		}); err != nil {
			return mapCategoryWriteError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.events.record(ctx, model.EventLevelInfo, model.EventCategoryCategory, "Category updated", id,
		map[string]any{"category_id": categoryID})
	return nil
}

// Delete removes a category that no article references. Admin only.
func (s *CategoryService) Delete(ctx context.Context, id auth.Identity, categoryID int64) error {
	if err := auth.RequireAdmin(id); err != nil {
		return err
	}

	err := s.store.InTx(ctx, func(q *store.Queries) error {
		if _, err := q.GetCategoryByID(ctx, categoryID); err != nil {
			return notFound(err, "Category")
		}

		count, err := q.CountArticlesInCategory(ctx, sql.NullInt64{Int64: categoryID, Valid: true})
		if err != nil {
			return fmt.Errorf("counting category articles: %w", err)
		}
		if count > 0 {
			return model.NewConflictError("Cannot delete category with articles")
		}

		if err := q.DeleteCategory(ctx, categoryID); err != nil {
			if store.IsForeignKeyViolation(err) {
				return model.NewConflictError("Cannot delete category with articles")
			}
			return fmt.Errorf("deleting category: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.events.record(ctx, model.EventLevelInfo, model.EventCategoryCategory, "Category deleted", id,
		map[string]any{"category_id": categoryID})
	return nil
}
