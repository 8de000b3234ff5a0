package utils

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const renderCacheTTL = 10 * time.Minute

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	policy = bluemonday.UGCPolicy()
)

func init() {
	policy.AllowImages()
	policy.AllowURLSchemes("http", "https", "mailto")
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnLinks(true)
}

// RenderMarkdown turns user-supplied markdown into sanitized HTML. Only the raw
// text is ever stored; the HTML is derived on read. Output for a given input is
// memoized since rendering is a pure function of the source.
func RenderMarkdown(source string) template.HTML {
	sum := sha256.Sum256([]byte(source))
	key := "md:" + hex.EncodeToString(sum[:])
	if cached, ok := GetCache().Get(key).(template.HTML); ok {
		return cached
	}

	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		// never fall back to the raw source, it is untrusted
		return template.HTML(template.HTMLEscapeString(source))
	}

	sanitized := policy.SanitizeBytes(buf.Bytes())
	out := EnhanceHTMLContent(string(sanitized))
	GetCache().Set(key, out, renderCacheTTL)
	return out
}
