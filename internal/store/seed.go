// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// DefaultSetting is a settings row created on first start.
type DefaultSetting struct {
	Key         string
	Value       string
	Description string
}

// DefaultSettings are inserted by Seed when missing. Existing values are never touched.
var DefaultSettings = []DefaultSetting{
	{Key: "site_title", Value: "oBlog", Description: "Site title"},
	{Key: "site_description", Value: "", Description: "Short site description"},
	{Key: "posts_per_page", Value: "10", Description: "Articles per page"},
}

// Seed creates initial data in the database.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)
	now := time.Now().UTC()

	for _, s := range DefaultSettings {
		err := queries.InsertSettingIfMissing(ctx, UpsertSettingParams{
			Key:         s.Key,
			Value:       s.Value,
			Description: sql.NullString{String: s.Description, Valid: s.Description != ""},
			UpdatedAt:   now,
		})
		if err != nil {
			return fmt.Errorf("seeding setting %s: %w", s.Key, err)
		}
	}

	slog.Info("default settings seeded", "count", len(DefaultSettings))
	return nil
}
