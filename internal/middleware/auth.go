// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// login protection, cross-origin protection and response headers.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/service"
	"github.com/olegiv/oblog/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyIdentity holds the auth.Identity of the caller.
const ContextKeyIdentity ContextKey = "identity"

// SessionKeyUserID is the session key storing the logged-in user's id.
const SessionKeyUserID = "user_id"

// UserResolver loads the user a session points to.
type UserResolver interface {
	GetUser(ctx context.Context, id int64) (store.User, error)
}

// LoadIdentity creates middleware that resolves the session user into an
// auth.Identity and stores it, together with the client IP and user agent,
// in the request context. A session whose user no longer exists is destroyed
// and the request continues anonymously.
func LoadIdentity(sm *scs.SessionManager, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := service.WithClientInfo(r.Context(), service.ClientInfo{
				IP:        ClientIP(r),
				UserAgent: r.UserAgent(),
			})

			id := auth.Anonymous
			if userID := sm.GetInt64(ctx, SessionKeyUserID); userID != 0 {
				user, err := users.GetUser(ctx, userID)
				switch {
				case err == nil:
					id = service.IdentityOf(user)
				case errors.Is(err, model.ErrNotFound):
					slog.Info("destroying session of missing user", "user_id", userID)
					if err := sm.Destroy(ctx); err != nil {
						slog.Error("destroying session", "error", err)
					}
				default:
					slog.Error("loading session user", "user_id", userID, "error", err)
					WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Internal server error", "")
					return
				}
			}

			ctx = context.WithValue(ctx, ContextKeyIdentity, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the caller identity stored by LoadIdentity,
// or auth.Anonymous.
func IdentityFromContext(ctx context.Context) auth.Identity {
	id, ok := ctx.Value(ContextKeyIdentity).(auth.Identity)
	if !ok {
		return auth.Anonymous
	}
	return id
}

// GetIdentity returns the caller identity of r.
func GetIdentity(r *http.Request) auth.Identity {
	return IdentityFromContext(r.Context())
}

// RequireAuth rejects anonymous callers with a JSON 401.
// It must run after LoadIdentity.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetIdentity(r).IsAuthenticated() {
			WriteAPIError(w, http.StatusUnauthorized, model.KindUnauthorized, model.ErrUnauthorized.Message, "")
			return
		}
		next.ServeHTTP(w, r)
	})
}
