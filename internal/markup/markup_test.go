package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	html, err := RenderMarkdown("# Title\n\nSome **bold** text.")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "Title</h1>")
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestRenderMarkdown_GFM(t *testing.T) {
	html, err := RenderMarkdown("| a | b |\n|---|---|\n| 1 | 2 |\n\n~~gone~~")
	require.NoError(t, err)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<del>gone</del>")
}

func TestRenderMarkdown_Sanitizes(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		forbidden string
	}{
		{"raw script", "hello <script>alert(1)</script>", "<script"},
		{"javascript link", "[click](javascript:alert(1))", "javascript:"},
		{"event handler", `<img src="x" onerror="alert(1)">`, "onerror"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := RenderMarkdown(tt.input)
			require.NoError(t, err)
			assert.NotContains(t, strings.ToLower(html), tt.forbidden)
		})
	}
}
