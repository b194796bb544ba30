// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/olegiv/oblog/internal/middleware"
	"github.com/olegiv/oblog/internal/version"
)

const pingTimeout = 2 * time.Second

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	version   version.Info
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *sql.DB, v version.Info) *HealthHandler {
	return &HealthHandler{db: db, version: v, startTime: time.Now()}
}

// HealthStatus is the health response. Only admins get more than Status.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp *time.Time       `json:"timestamp,omitempty"`
	Uptime    string           `json:"uptime,omitempty"`
	Version   string           `json:"version,omitempty"`
	Commit    string           `json:"commit,omitempty"`
	Checks    map[string]Check `json:"checks,omitempty"`
}

// Check is a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency"`
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	db := h.checkDatabase(r.Context())

	resp := HealthStatus{Status: "ok"}
	code := http.StatusOK
	if db.Status != "ok" {
		resp.Status = "unavailable"
		code = http.StatusServiceUnavailable
	}

	if middleware.GetIdentity(r).IsAdmin {
		now := time.Now().UTC()
		resp.Timestamp = &now
		resp.Uptime = time.Since(h.startTime).Round(time.Second).String()
		resp.Version = h.version.Version
		resp.Commit = h.version.GitCommit
		resp.Checks = map[string]Check{"database": db}
	}

	WriteJSON(w, code, resp)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)
	latency := time.Since(start).String()

	if err != nil {
		return Check{Status: "unavailable", Message: err.Error(), Latency: latency}
	}
	return Check{Status: "ok", Latency: latency}
}
