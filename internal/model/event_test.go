// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"
)

func TestValidEventLevel(t *testing.T) {
	tests := []struct {
		level string
		want  bool
	}{
		{EventLevelInfo, true},
		{EventLevelWarning, true},
		{EventLevelError, true},
		{"debug", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := ValidEventLevel(tt.level); got != tt.want {
				t.Errorf("ValidEventLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestValidEventCategory(t *testing.T) {
	tests := []struct {
		category string
		want     bool
	}{
		{EventCategoryAuth, true},
		{EventCategoryArticle, true},
		{EventCategoryCategory, true},
		{EventCategoryComment, true},
		{EventCategorySetting, true},
		{EventCategorySystem, true},
		{"page", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			if got := ValidEventCategory(tt.category); got != tt.want {
				t.Errorf("ValidEventCategory(%q) = %v, want %v", tt.category, got, tt.want)
			}
		})
	}
}
