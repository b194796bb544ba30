// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the blog operations. Every exported method
// takes the caller's auth.Identity, runs the access policy before touching
// the store, performs its writes in one transaction and reports domain
// failures as *model.Error.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
)

// Pagination defaults.
const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Services bundles every service over one database.
type Services struct {
	Accounts   *AccountService
	Articles   *ArticleService
	Categories *CategoryService
	Comments   *CommentService
	Settings   *SettingService
	Events     *EventService
}

// New builds all services over db.
func New(db *sql.DB) *Services {
	st := store.NewStore(db)
	events := NewEventService(db)
	return &Services{
		Accounts:   NewAccountService(st, events),
		Articles:   NewArticleService(st, events),
		Categories: NewCategoryService(st, events),
		Comments:   NewCommentService(st, events),
		Settings:   NewSettingService(st, events),
		Events:     events,
	}
}

type clientInfoKey struct{}

// ClientInfo describes where a request came from. It is recorded on audit events.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// WithClientInfo returns a context carrying info.
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, info)
}

// ClientInfoFrom returns the ClientInfo stored in ctx, or the zero value.
func ClientInfoFrom(ctx context.Context) ClientInfo {
	info, _ := ctx.Value(clientInfoKey{}).(ClientInfo)
	return info
}

// PageRequest selects one page of a listing.
type PageRequest struct {
	Page    int
	PerPage int
}

// Normalize applies defaults and bounds: page >= 1, 1 <= per_page <= MaxPerPage.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func (p PageRequest) limit() int64  { return int64(p.PerPage) }
func (p PageRequest) offset() int64 { return int64(p.Page-1) * int64(p.PerPage) }

// PageInfo describes the page returned by a listing.
type PageInfo struct {
	Total       int64 `json:"total"`
	Pages       int   `json:"pages"`
	CurrentPage int   `json:"current_page"`
}

func newPageInfo(total int64, p PageRequest) PageInfo {
	return PageInfo{
		Total:       total,
		Pages:       int(math.Ceil(float64(total) / float64(p.PerPage))),
		CurrentPage: p.Page,
	}
}

// tooLong reports whether s has more than limit characters.
func tooLong(s string, limit int) bool {
	return utf8.RuneCountInString(s) > limit
}

func now() time.Time {
	return time.Now().UTC()
}

// notFound maps sql.ErrNoRows to a NotFound domain error for entity
// ("Article" yields "Article not found") and wraps anything else.
func notFound(err error, entity string) error {
	if store.IsNotFound(err) {
		return model.NewNotFoundError(entity)
	}
	return fmt.Errorf("loading %s: %w", strings.ToLower(entity), err)
}
