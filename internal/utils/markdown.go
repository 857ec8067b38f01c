package utils

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	policy = bluemonday.UGCPolicy()
)

func init() {
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnLinks(true)
}

// RenderBio converts a contributor description (markdown) into sanitized
// HTML for display alongside a byline.
func RenderBio(source string) string {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return SanitizeHTML(source) // Fallback
	}
	return string(policy.SanitizeBytes(buf.Bytes()))
}

// SanitizeHTML strips disallowed markup from user-supplied text before it
// is persisted.
func SanitizeHTML(s string) string {
	return policy.Sanitize(s)
}
