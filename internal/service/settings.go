// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
)

// Field limits for settings.
const (
	MaxSettingKeyLength   = 64
	MaxSettingValueLength = 256
)

// SettingService manages the flat key/value site settings.
type SettingService struct {
	store  *store.Store
	events *EventService
}

// NewSettingService creates a new SettingService.
func NewSettingService(st *store.Store, events *EventService) *SettingService {
	return &SettingService{store: st, events: events}
}

// All returns every setting as a key to value map. Public.
func (s *SettingService) All(ctx context.Context) (map[string]string, error) {
	rows, err := s.store.ListSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

// SettingValue converts a raw JSON value to its stored text: strings are
// kept as-is, null becomes "", anything else keeps its compact JSON text.
func SettingValue(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0 || string(trimmed) == "null":
		return "", nil
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Update upserts every key of values in one transaction. Admin only.
// Nothing is written when any key or value is invalid.
func (s *SettingService) Update(ctx context.Context, id auth.Identity, values map[string]json.RawMessage) error {
	if err := auth.RequireAdmin(id); err != nil {
		return err
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	params := make([]store.UpsertSettingParams, 0, len(keys))
	ts := now()
	for _, k := range keys {
		key := strings.TrimSpace(k)
		if key == "" {
			return model.NewValidationError("key", "Setting key must not be empty")
		}
		if tooLong(key, MaxSettingKeyLength) {
			return model.NewValidationError(key, fmt.Sprintf("Setting key must be at most %d characters", MaxSettingKeyLength))
		}
		value, err := SettingValue(values[k])
		if err != nil {
			return model.NewValidationError(key, "Invalid setting value")
		}
		if tooLong(value, MaxSettingValueLength) {
			return model.NewValidationError(key, fmt.Sprintf("Setting value must be at most %d characters", MaxSettingValueLength))
		}
		params = append(params, store.UpsertSettingParams{Key: key, Value: value, UpdatedAt: ts})
	}

	if len(params) == 0 {
		return nil
	}

	err := s.store.InTx(ctx, func(q *store.Queries) error {
		for _, p := range params {
			if err := q.UpsertSetting(ctx, p); err != nil {
				return fmt.Errorf("saving setting %s: %w", p.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.events.record(ctx, model.EventLevelInfo, model.EventCategorySetting, "Settings updated", id,
		map[string]any{"keys": keys})
	return nil
}
