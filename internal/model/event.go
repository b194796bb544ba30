// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain types shared across the application:
// content statuses, audit event constants and the typed error taxonomy.
package model

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth     = "auth"
	EventCategoryArticle  = "article"
	EventCategoryCategory = "category"
	EventCategoryComment  = "comment"
	EventCategorySetting  = "setting"
	EventCategorySystem   = "system"
)

// ValidEventLevel reports whether level is a known event level.
func ValidEventLevel(level string) bool {
	switch level {
	case EventLevelInfo, EventLevelWarning, EventLevelError:
		return true
	}
	return false
}

// ValidEventCategory reports whether category is a known event category.
func ValidEventCategory(category string) bool {
	switch category {
	case EventCategoryAuth, EventCategoryArticle, EventCategoryCategory,
		EventCategoryComment, EventCategorySetting, EventCategorySystem:
		return true
	}
	return false
}
