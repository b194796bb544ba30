// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mileusna/useragent"

	"github.com/olegiv/oblog/internal/auth"
	"github.com/olegiv/oblog/internal/model"
	"github.com/olegiv/oblog/internal/store"
)

// EventService writes and lists audit events.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{
		queries: store.New(db),
	}
}

// LogEvent creates a new event log entry.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, userID *int64, ipAddress string, metadata map[string]any) error {
	var nullUserID sql.NullInt64
	if userID != nil {
		nullUserID = sql.NullInt64{Int64: *userID, Valid: true}
	}

	metadataJSON := "{}"
	if len(metadata) > 0 {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    nullUserID,
		Metadata:  metadataJSON,
		IpAddress: ipAddress,
		CreatedAt: now(),
	})
	if err != nil {
		return fmt.Errorf("creating event: %w", err)
	}
	return nil
}

// record logs an event for the caller id using the client info in ctx.
// Failures are logged at INFO so they stay out of the event table itself.
func (s *EventService) record(ctx context.Context, level, category, message string, id auth.Identity, metadata map[string]any) {
	var userID *int64
	if id.IsAuthenticated() {
		uid := id.UserID
		userID = &uid
	}
	info := ClientInfoFrom(ctx)
	if err := s.LogEvent(ctx, level, category, message, userID, info.IP, metadata); err != nil {
		slog.Info("event not recorded", "message", message, "error", err)
	}
}

// LogAuthEvent records an authentication event. The client's user agent is
// parsed into browser, os and device entries of the metadata.
func (s *EventService) LogAuthEvent(ctx context.Context, level, message string, id auth.Identity, metadata map[string]any) {
	if metadata == nil {
		metadata = make(map[string]any)
	}
	if ua := ClientInfoFrom(ctx).UserAgent; ua != "" {
		for k, v := range DescribeUserAgent(ua) {
			metadata[k] = v
		}
	}
	s.record(ctx, level, model.EventCategoryAuth, message, id, metadata)
}

// DescribeUserAgent summarises a User-Agent header.
func DescribeUserAgent(header string) map[string]any {
	ua := useragent.Parse(header)

	device := "desktop"
	switch {
	case ua.Bot:
		device = "bot"
	case ua.Tablet:
		device = "tablet"
	case ua.Mobile:
		device = "mobile"
	}

	out := map[string]any{"device": device}
	if ua.Name != "" {
		out["browser"] = ua.Name
	}
	if ua.OS != "" {
		out["os"] = ua.OS
	}
	return out
}

// EventFilter narrows an event listing. Empty fields match everything.
type EventFilter struct {
	Level    string
	Category string
	PageRequest
}

// EventList is one page of events.
type EventList struct {
	Events []store.ListEventsRow
	PageInfo
}

// List returns recent events, newest first. Admin only.
func (s *EventService) List(ctx context.Context, id auth.Identity, f EventFilter) (EventList, error) {
	if err := auth.RequireAdmin(id); err != nil {
		return EventList{}, err
	}
	if f.Level != "" && !model.ValidEventLevel(f.Level) {
		return EventList{}, model.NewValidationError("level", "Invalid event level")
	}
	if f.Category != "" && !model.ValidEventCategory(f.Category) {
		return EventList{}, model.NewValidationError("category", "Invalid event category")
	}

	page := f.PageRequest.Normalize()
	level := sql.NullString{String: f.Level, Valid: f.Level != ""}
	category := sql.NullString{String: f.Category, Valid: f.Category != ""}

	total, err := s.queries.CountEvents(ctx, store.CountEventsParams{Level: level, Category: category})
	if err != nil {
		return EventList{}, fmt.Errorf("counting events: %w", err)
	}
	events, err := s.queries.ListEvents(ctx, store.ListEventsParams{
		Level:    level,
		Category: category,
		Limit:    page.limit(),
		Offset:   page.offset(),
	})
	if err != nil {
		return EventList{}, fmt.Errorf("listing events: %w", err)
	}

	return EventList{Events: events, PageInfo: newPageInfo(total, page)}, nil
}

// DeleteOldEvents removes events older than olderThan and returns how many were removed.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error) {
	n, err := s.queries.DeleteEventsBefore(ctx, now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("deleting old events: %w", err)
	}
	return n, nil
}
