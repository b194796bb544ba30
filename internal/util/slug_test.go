package util

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"punctuation", "Hello, World!", "hello-world"},
		{"numbers", "Top 10 Go tips", "top-10-go-tips"},
		{"accents", "Café résumé", "cafe-resume"},
		{"multiple spaces", "Hello   World", "hello-world"},
		{"hyphen with spaces", "Hello - World", "hello-world"},
		{"leading and trailing", "  Hello World  ", "hello-world"},
		{"only symbols", "!@#$%^&*()", ""},
		{"cyrillic", "Привет мир", "privet-mir"},
		{"underscores", "snake_case_title", "snake-case-title"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSlugify_Truncates(t *testing.T) {
	long := strings.Repeat("word ", 40)
	got := Slugify(long)
	if len(got) > MaxSlugLength {
		t.Fatalf("len = %d, want <= %d", len(got), MaxSlugLength)
	}
	if strings.HasSuffix(got, "-") || strings.HasSuffix(got, "wor") {
		t.Errorf("slug cut mid-word or with trailing hyphen: %q", got)
	}
}

func TestSlugOrFallback(t *testing.T) {
	if got := SlugOrFallback("!!!", "article"); got != "article" {
		t.Errorf("got %q, want article", got)
	}
	if got := SlugOrFallback("Go", "article"); got != "go" {
		t.Errorf("got %q, want go", got)
	}
}
