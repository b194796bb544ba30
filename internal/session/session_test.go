// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// a single connection keeps the in-memory database shared
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX sessions_expiry_idx ON sessions(expiry);
	`)
	if err != nil {
		t.Fatalf("failed to create sessions table: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew_Development(t *testing.T) {
	sm := New(setupTestDB(t), Options{})

	if sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = false")
	}
	if sm.Cookie.Name != CookieName {
		t.Errorf("Cookie.Name = %q, want %q", sm.Cookie.Name, CookieName)
	}
	if sm.Lifetime != DefaultLifetime {
		t.Errorf("Lifetime = %v, want %v", sm.Lifetime, DefaultLifetime)
	}
	if !sm.Cookie.HttpOnly {
		t.Error("expected Cookie.HttpOnly = true")
	}
	if sm.Cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", sm.Cookie.SameSite)
	}
}

func TestNew_Production(t *testing.T) {
	sm := New(setupTestDB(t), Options{Lifetime: 2 * time.Hour, IdleTimeout: 30 * time.Minute, Secure: true})

	if !sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = true")
	}
	if sm.Cookie.Name != HostCookieName {
		t.Errorf("Cookie.Name = %q, want %q", sm.Cookie.Name, HostCookieName)
	}
	if sm.Cookie.Path != "/" {
		t.Errorf("Cookie.Path = %q, want /", sm.Cookie.Path)
	}
	if sm.Lifetime != 2*time.Hour || sm.IdleTimeout != 30*time.Minute {
		t.Errorf("Lifetime/IdleTimeout = %v/%v", sm.Lifetime, sm.IdleTimeout)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	sm := New(setupTestDB(t), Options{})

	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sm.Put(ctx, "user_id", int64(7))

	token, _, err := sm.Commit(ctx)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	loaded, err := sm.Load(context.Background(), token)
	if err != nil {
		t.Fatalf("Load(token): %v", err)
	}
	if got := sm.GetInt64(loaded, "user_id"); got != 7 {
		t.Errorf("user_id = %d, want 7", got)
	}
}
