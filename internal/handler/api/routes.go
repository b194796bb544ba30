// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/version"
)

// RouterConfig holds everything the router wires together.
type RouterConfig struct {
	DB              *sql.DB
	Services        *service.Services
	Sessions        *scs.SessionManager
	LoginProtection *middleware.LoginProtection
	CSRF            middleware.CSRFConfig
	SecurityHeaders middleware.SecurityHeadersConfig
	Version         version.Info

	// RequestTimeout bounds each request; 0 disables the timeout.
	RequestTimeout time.Duration
	// AccessLog enables chi's request logger.
	AccessLog bool
}

// NewRouter builds the HTTP handler for the whole API.
func NewRouter(cfg RouterConfig) http.Handler {
	h := NewHandler(cfg.Services, cfg.Sessions, cfg.LoginProtection)
	health := NewHealthHandler(cfg.DB, cfg.Version)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.AccessLog {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.CSRF(cfg.CSRF))
	r.Use(cfg.Sessions.LoadAndSave)
	r.Use(middleware.LoadIdentity(cfg.Sessions, cfg.Services.Accounts))

	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	r.Get("/health", health.Health)

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(cfg.LoginProtection.Middleware())
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
		})
	})

	r.Route("/api", func(r chi.Router) {
		// Public reads; visibility is decided per caller by the services.
		r.Get("/articles", h.ListArticles)
		r.Get("/articles/{id}", h.GetArticle)
		r.Get("/categories", h.ListCategories)
		r.Get("/comments", h.ListComments)
		r.Get("/settings", h.GetSettings)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/articles", h.CreateArticle)
			r.Put("/articles/{id}", h.UpdateArticle)
			r.Delete("/articles/{id}", h.DeleteArticle)

			r.Post("/categories", h.CreateCategory)
			r.Put("/categories/{id}", h.UpdateCategory)
			r.Delete("/categories/{id}", h.DeleteCategory)

			r.Post("/comments", h.CreateComment)
			r.Put("/comments/{id}/status", h.UpdateCommentStatus)
			r.Delete("/comments/{id}", h.DeleteComment)

			r.Post("/settings", h.UpdateSettings)

			r.Get("/events", h.ListEvents)
		})
	})

	return r
}
