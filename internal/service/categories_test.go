package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/model"
)

func TestCategories_CRUD(t *testing.T) {
	svc, _ := testServices(t)
	ctx := context.Background()
	admin, user := adminAndUser(t, svc)

	goID, err := svc.Categories.Create(ctx, admin, CategoryFields{
		Name:        some("Go"),
		Description: some("Gophers"),
	})
	require.NoError(t, err)
	_, err = svc.Categories.Create(ctx, admin, CategoryFields{Name: some("Astronomy")})
	require.NoError(t, err)

	_, err = svc.Categories.Create(ctx, admin, CategoryFields{Name: some("Go")})
	requireKind(t, err, model.KindDuplicateField)
	_, err = svc.Categories.Create(ctx, admin, CategoryFields{})
	requireKind(t, err, model.KindValidation)
	_, err = svc.Categories.Create(ctx, user, CategoryFields{Name: some("Mine")})
	requireKind(t, err, model.KindForbidden)
	_, err = svc.Categories.Create(ctx, auth.Anonymous, CategoryFields{Name: some("Mine")})
	requireKind(t, err, model.KindUnauthorized)

	createArticle(t, svc, admin, "unrelated", "published")
	_, err = svc.Articles.Create(ctx, admin, ArticleFields{
		Title:      some("in go"),
		Content:    some("C"),
		CategoryID: some(goID),
	})
	require.NoError(t, err)

	list, err := svc.Categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Astronomy", list[0].Name, "ordered by name")
	assert.Equal(t, int64(0), list[0].ArticleCount)
	assert.Equal(t, "Go", list[1].Name)
	assert.Equal(t, int64(1), list[1].ArticleCount)
	assert.Equal(t, "Gophers", list[1].Description.String)
	assert.Equal(t, "go", list[1].Slug)
}

func TestUpdateCategory(t *testing.T) {
	svc, _ := testServices(t)
	ctx := context.Background()
	admin, _ := adminAndUser(t, svc)

	goID, err := svc.Categories.Create(ctx, admin, CategoryFields{Name: some("Go"), Description: some("d")})
	require.NoError(t, err)
	_, err = svc.Categories.Create(ctx, admin, CategoryFields{Name: some("Rust")})
	require.NoError(t, err)

	err = svc.Categories.Update(ctx, admin, goID, CategoryFields{Name: some("Rust")})
	requireKind(t, err, model.KindDuplicateField)

	// same name is not a collision with itself
	require.NoError(t, svc.Categories.Update(ctx, admin, goID, CategoryFields{Name: some("Go")}))

	require.NoError(t, svc.Categories.Update(ctx, admin, goID, CategoryFields{Name: some("Golang Tips")}))
	require.NoError(t, svc.Categories.Update(ctx, admin, goID, CategoryFields{Description: null[string]()}))

	err = svc.Categories.Update(ctx, admin, 999, CategoryFields{Name: some("x")})
	requireKind(t, err, model.KindNotFound)

	list, err := svc.Categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Golang Tips", list[0].Name)
	assert.Equal(t, "golang-tips", list[0].Slug)
	assert.False(t, list[0].Description.Valid)
}

func TestDeleteCategory(t *testing.T) {
	svc, _ := testServices(t)
	ctx := context.Background()
	admin, user := adminAndUser(t, svc)

	used, err := svc.Categories.Create(ctx, admin, CategoryFields{Name: some("Used")})
	require.NoError(t, err)
	empty, err := svc.Categories.Create(ctx, admin, CategoryFields{Name: some("Empty")})
	require.NoError(t, err)
	_, err = svc.Articles.Create(ctx, admin, ArticleFields{
		Title:      some("T"),
		Content:    some("C"),
		CategoryID: some(used),
	})
	require.NoError(t, err)

	err = svc.Categories.Delete(ctx, admin, used)
	requireKind(t, err, model.KindConflict)

	err = svc.Categories.Delete(ctx, user, empty)
	requireKind(t, err, model.KindForbidden)

	require.NoError(t, svc.Categories.Delete(ctx, admin, empty))
	err = svc.Categories.Delete(ctx, admin, empty)
	requireKind(t, err, model.KindNotFound)

	list, err := svc.Categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Used", list[0].Name, "blocked category remains listed")
}
