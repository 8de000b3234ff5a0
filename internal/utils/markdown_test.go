package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		contains   []string
		notContain []string
	}{
		{
			name:     "emphasis",
			input:    "Hello **world**",
			contains: []string{"<strong>world</strong>"},
		},
		{
			name:       "script is stripped",
			input:      "hi <script>alert(1)</script>",
			notContain: []string{"<script", "alert(1)</script>"},
		},
		{
			name:       "javascript links are dropped",
			input:      "[click](javascript:alert(1))",
			notContain: []string{"javascript:"},
		},
		{
			name:     "external links open safely",
			input:    "[site](https://example.com)",
			contains: []string{`href="https://example.com"`, `target="_blank"`, `rel="nofollow noopener noreferrer"`},
		},
		{
			name:     "images load lazily",
			input:    "![cat](https://example.com/cat.png)",
			contains: []string{`loading="lazy"`, `referrerpolicy="no-referrer"`},
		},
		{
			name:       "inline event handlers are removed",
			input:      `<img src="x" onerror="alert(1)">`,
			notContain: []string{"onerror"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(RenderMarkdown(tt.input))
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, bad := range tt.notContain {
				assert.NotContains(t, out, bad)
			}
		})
	}
}

func TestRenderMarkdown_IsMemoized(t *testing.T) {
	input := "memo " + strings.Repeat("x", 10)
	first := RenderMarkdown(input)
	before := GetCache().Len()
	second := RenderMarkdown(input)
	assert.Equal(t, first, second)
	assert.Equal(t, before, GetCache().Len())
}

func TestEnhanceHTMLContent_Empty(t *testing.T) {
	assert.Empty(t, string(EnhanceHTMLContent("")))
}
