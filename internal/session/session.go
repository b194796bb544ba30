// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the server-side session manager. Sessions
// live in the application database; the cookie carries only the token.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Cookie names. The __Host- prefix requires Secure, so it is only used in production.
const (
	CookieName     = "oblog_session"
	HostCookieName = "__Host-oblog_session"
)

// DefaultLifetime is used when Options.Lifetime is zero.
const DefaultLifetime = 24 * time.Hour

// Options configure the session manager.
type Options struct {
	Lifetime    time.Duration
	IdleTimeout time.Duration
	Secure      bool
}

// New creates a session manager backed by the sessions table in db.
func New(db *sql.DB, opts Options) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = opts.Lifetime
	if sm.Lifetime <= 0 {
		sm.Lifetime = DefaultLifetime
	}
	sm.IdleTimeout = opts.IdleTimeout

	sm.Cookie.Name = CookieName
	sm.Cookie.Path = "/"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = opts.Secure
	if opts.Secure {
		sm.Cookie.Name = HostCookieName
	}

	return sm
}
